package api

import (
	"alcyxob/fitness-admin/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 20

// GlobalWorkoutHandler serves the shared exercise library.
type GlobalWorkoutHandler struct {
	library service.GlobalWorkoutService
}

func NewGlobalWorkoutHandler(library service.GlobalWorkoutService) *GlobalWorkoutHandler {
	return &GlobalWorkoutHandler{library: library}
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListGlobalWorkouts godoc
// @Summary List library workouts
// @Tags GlobalWorkouts
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active entries"
// @Success 200 {array} domain.GlobalWorkout
// @Router /global-workouts [get]
func (h *GlobalWorkoutHandler) ListGlobalWorkouts(c *gin.Context) {
	workouts, err := h.library.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err, "Failed to load workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// SearchGlobalWorkouts is the picker's autocomplete: fuzzy matches over the
// active entries, best first.
func (h *GlobalWorkoutHandler) SearchGlobalWorkouts(c *gin.Context) {
	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	workouts, err := h.library.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err, "Failed to search workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *GlobalWorkoutHandler) GetGlobalWorkout(c *gin.Context) {
	g, err := h.library.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to load workout")
		return
	}
	c.JSON(http.StatusOK, g)
}

// CreateGlobalWorkout godoc
// @Summary Add a workout to the library
// @Tags GlobalWorkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body service.GlobalWorkoutInput true "Workout details"
// @Success 201 {object} domain.GlobalWorkout
// @Failure 409 {object} gin.H "A workout with this name exists"
// @Router /global-workouts [post]
func (h *GlobalWorkoutHandler) CreateGlobalWorkout(c *gin.Context) {
	var req service.GlobalWorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	g, err := h.library.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GlobalWorkoutHandler) UpdateGlobalWorkout(c *gin.Context) {
	var req service.GlobalWorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	g, err := h.library.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GlobalWorkoutHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	g, err := h.library.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondError(c, err, "Failed to update workout")
		return
	}
	c.JSON(http.StatusOK, g)
}

// References lists the plans that use a library entry.
func (h *GlobalWorkoutHandler) References(c *gin.Context) {
	plans, err := h.library.References(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to check workout usage")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// DeleteGlobalWorkout godoc
// @Summary Remove a workout from the library
// @Description Referenced entries are only removed with force=true. Requires confirm=true.
// @Tags GlobalWorkouts
// @Security BearerAuth
// @Param id path string true "Workout ID"
// @Param force query bool false "Delete even when plans use it"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204
// @Failure 409 {object} gin.H "Workout in use"
// @Router /global-workouts/{id} [delete]
func (h *GlobalWorkoutHandler) DeleteGlobalWorkout(c *gin.Context) {
	force := c.Query("force") == "true"
	if err := h.library.Delete(c.Request.Context(), c.Param("id"), force, confirmation(c)); err != nil {
		respondError(c, err, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}
