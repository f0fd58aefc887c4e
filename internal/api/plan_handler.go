package api

import (
	"alcyxob/fitness-admin/internal/planio"
	"alcyxob/fitness-admin/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the stored plans. Editing goes through SessionHandler.
type PlanHandler struct {
	planService service.PlanService
	editor      service.Editor
}

func NewPlanHandler(planService service.PlanService, editor service.Editor) *PlanHandler {
	return &PlanHandler{planService: planService, editor: editor}
}

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ListPlans godoc
// @Summary List workout plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PlanSummary
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load workout plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary Start a new workout plan
// @Description Opens an editing session on an empty plan. Nothing is stored until the session is saved.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan name and description"
// @Success 201 {object} SessionResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	owner, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return
	}
	s, err := h.editor.OpenNew(owner, req.Name, req.Description)
	if err != nil {
		respondError(c, err, "Failed to create workout plan")
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(s))
}

// OpenSession godoc
// @Summary Open a stored plan for editing
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 201 {object} SessionResponse
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/sessions [post]
func (h *PlanHandler) OpenSession(c *gin.Context) {
	owner, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return
	}
	s, err := h.editor.Open(c.Request.Context(), owner, c.Param("planId"))
	if err != nil {
		respondError(c, err, "Failed to load workout plan")
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(s))
}

// DeletePlan godoc
// @Summary Delete a workout plan
// @Description Removes the plan. With cascade=true its weeks, days and workouts go too. Requires confirm=true.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param cascade query bool false "Also delete weeks, days and workouts"
// @Param confirm query bool true "Confirm the deletion"
// @Success 200 {object} service.DeleteResult
// @Failure 428 {object} gin.H "Confirmation missing"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	cascade := c.Query("cascade") == "true"
	result, err := h.planService.Delete(c.Request.Context(), c.Param("planId"), cascade, confirmation(c))
	if err != nil {
		respondError(c, err, "Failed to delete workout plan")
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPlan godoc
// @Summary Download a stored plan as a JSON file
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {file} file
// @Router /plans/{planId}/export [get]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	tree, err := h.planService.Load(c.Request.Context(), c.Param("planId"))
	if err != nil {
		respondError(c, err, "Failed to export plan")
		return
	}
	doc := planio.Export(tree)
	data, err := planio.Marshal(doc)
	if err != nil {
		respondError(c, err, "Failed to export plan")
		return
	}
	sendAttachment(c, planio.FileName(doc.Name), data)
}

func sendAttachment(c *gin.Context, fileName string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/json", data)
}
