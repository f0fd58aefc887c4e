package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes the plan editor: structural edits on the working
// copy, then save, import, export or discard.
type SessionHandler struct {
	editor  service.Editor
	library service.GlobalWorkoutService
}

func NewSessionHandler(editor service.Editor, library service.GlobalWorkoutService) *SessionHandler {
	return &SessionHandler{editor: editor, library: library}
}

// --- DTOs ---

type UpdatePlanFieldsRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type SelectWeekRequest struct {
	Index *int `json:"index" binding:"required"`
}

type UpdateWeekRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

type DayRequest struct {
	Name string `json:"name"`
}

type AddWorkoutRequest struct {
	GlobalWorkoutID string                `json:"globalWorkoutId" binding:"required"`
	Config          *domain.WorkoutConfig `json:"config"`
}

type UpdateWorkoutRequest struct {
	GlobalWorkoutID *string               `json:"globalWorkoutId"`
	Config          *domain.WorkoutConfig `json:"config"`
}

type MoveWorkoutRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

type TargetRepsRequest struct {
	Replacements map[string]string `json:"replacements" binding:"required"`
}

type SaveResponse struct {
	Result  *service.SaveResult `json:"result"`
	Session SessionResponse     `json:"session"`
}

// --- Helpers ---

// session resolves the :sid parameter for the signed-in account.
func (h *SessionHandler) session(c *gin.Context) (*service.Session, string, bool) {
	owner, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return nil, "", false
	}
	s, err := h.editor.Get(c.Param("sid"), owner)
	if err != nil {
		respondError(c, err, "Failed to load editing session")
		return nil, "", false
	}
	return s, owner, true
}

// edit applies fn to the working tree and answers with the new state.
func (h *SessionHandler) edit(c *gin.Context, status int, fn func(tree *plantree.Tree) error) {
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.editor.Edit(s.ID, owner, fn); err != nil {
		respondError(c, err, "Failed to update plan")
		return
	}
	c.JSON(status, MapSessionToResponse(s))
}

// checkConfig rejects configs the workout screens would not accept.
func checkConfig(kind domain.WorkoutType, cfg domain.WorkoutConfig) error {
	if err := cfg.Check(kind); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}

// --- Session lifecycle ---

func (h *SessionHandler) GetSession(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// SaveSession godoc
// @Summary Save the working copy
// @Description Writes only what changed since the last load or save. A failed save can be retried without duplicating what was already written.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Session ID"
// @Success 200 {object} SaveResponse
// @Router /sessions/{sid}/save [post]
func (h *SessionHandler) SaveSession(c *gin.Context) {
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	result, err := h.editor.Save(c.Request.Context(), s.ID, owner)
	if err != nil {
		respondError(c, err, "Failed to save plan. Please try again.")
		return
	}
	c.JSON(http.StatusOK, SaveResponse{Result: result, Session: MapSessionToResponse(s)})
}

// ImportSession godoc
// @Summary Replace the working copy with a plan file
// @Description The file is validated in full before anything changes. The import is only stored by the next save.
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Session ID"
// @Param file formData file true "Plan JSON file"
// @Success 200 {object} SessionResponse
// @Failure 422 {object} gin.H "Invalid plan file"
// @Router /sessions/{sid}/import [post]
func (h *SessionHandler) ImportSession(c *gin.Context) {
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Please select a JSON file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err, "Failed to import plan")
		return
	}
	defer f.Close()

	if err := h.editor.Import(c.Request.Context(), s.ID, owner, fh.Filename, f); err != nil {
		respondError(c, err, "Failed to import plan")
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(s))
}

// ExportSession sends the working copy as a file. When object storage is
// configured the stored copy's link is in the X-Download-URL header.
func (h *SessionHandler) ExportSession(c *gin.Context) {
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	out, err := h.editor.Export(c.Request.Context(), s.ID, owner)
	if err != nil {
		respondError(c, err, "Failed to export plan")
		return
	}
	if out.DownloadURL != "" {
		c.Header("X-Download-URL", out.DownloadURL)
	}
	sendAttachment(c, out.FileName, out.Data)
}

func (h *SessionHandler) DiscardSession(c *gin.Context) {
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	if err := h.editor.Discard(s.ID, owner); err != nil {
		respondError(c, err, "Failed to discard session")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Plan and week edits ---

func (h *SessionHandler) UpdatePlanFields(c *gin.Context) {
	var req UpdatePlanFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		tree.SetPlanFields(req.Name, req.Description)
		return nil
	})
}

func (h *SessionHandler) SelectWeek(c *gin.Context) {
	var req SelectWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.SelectWeek(*req.Index)
	})
}

func (h *SessionHandler) AddWeek(c *gin.Context) {
	h.edit(c, http.StatusCreated, func(tree *plantree.Tree) error {
		tree.AddWeek()
		return nil
	})
}

// CopyWeek duplicates the active week.
func (h *SessionHandler) CopyWeek(c *gin.Context) {
	h.edit(c, http.StatusCreated, func(tree *plantree.Tree) error {
		_, err := tree.CopyWeek()
		return err
	})
}

func (h *SessionHandler) UpdateWeek(c *gin.Context) {
	var req UpdateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.SetWeekNumber(c.Param("weekId"), req.Number)
	})
}

func (h *SessionHandler) DeleteWeek(c *gin.Context) {
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.DeleteWeek(c.Param("weekId"))
	})
}

// GetTargetReps lists the distinct target reps of a week's Weight workouts
// for the bulk editor.
func (h *SessionHandler) GetTargetReps(c *gin.Context) {
	s, _, ok := h.session(c)
	if !ok {
		return
	}
	var (
		values []string
		err    error
	)
	s.View(func(tree *plantree.Tree, _ *plantree.Changes) {
		values, err = tree.TargetRepsValues(c.Param("weekId"))
	})
	if err != nil {
		respondError(c, err, "Failed to read target reps")
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

func (h *SessionHandler) BulkEditTargetReps(c *gin.Context) {
	var req TargetRepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	s, owner, ok := h.session(c)
	if !ok {
		return
	}
	changed := 0
	err := h.editor.Edit(s.ID, owner, func(tree *plantree.Tree) error {
		n, err := tree.BulkEditTargetReps(c.Param("weekId"), req.Replacements)
		changed = n
		return err
	})
	if err != nil {
		respondError(c, err, "Failed to update target reps")
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "session": MapSessionToResponse(s)})
}

// --- Day edits ---

func (h *SessionHandler) AddDay(c *gin.Context) {
	var req DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, http.StatusCreated, func(tree *plantree.Tree) error {
		_, err := tree.AddDay(c.Param("weekId"), req.Name)
		return err
	})
}

func (h *SessionHandler) CopyDay(c *gin.Context) {
	h.edit(c, http.StatusCreated, func(tree *plantree.Tree) error {
		_, err := tree.CopyDay(c.Param("dayId"))
		return err
	})
}

func (h *SessionHandler) RenameDay(c *gin.Context) {
	var req DayRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		abortWithError(c, http.StatusBadRequest, "Validation error: name is required")
		return
	}
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.RenameDay(c.Param("dayId"), req.Name)
	})
}

func (h *SessionHandler) DeleteDay(c *gin.Context) {
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.DeleteDay(c.Param("dayId"))
	})
}

// --- Workout edits ---

// AddWorkout godoc
// @Summary Add a library workout to a day
// @Description Without a config the type's defaults are used.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sid path string true "Session ID"
// @Param dayId path string true "Day ID"
// @Param workout body AddWorkoutRequest true "Library reference and config"
// @Success 201 {object} SessionResponse
// @Router /sessions/{sid}/days/{dayId}/workouts [post]
func (h *SessionHandler) AddWorkout(c *gin.Context) {
	var req AddWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	g, err := h.library.Get(c.Request.Context(), req.GlobalWorkoutID)
	if err != nil {
		respondError(c, err, "Failed to load workout")
		return
	}
	cfg := domain.DefaultConfig(g.Type)
	if req.Config != nil {
		cfg = *req.Config
	}
	if err := checkConfig(g.Type, cfg); err != nil {
		respondError(c, err, "Failed to add workout")
		return
	}
	h.edit(c, http.StatusCreated, func(tree *plantree.Tree) error {
		_, err := tree.AddWorkout(c.Param("dayId"), g.ID, g.Display(), cfg)
		return err
	})
}

// UpdateWorkout changes a workout's config, its library reference, or both.
func (h *SessionHandler) UpdateWorkout(c *gin.Context) {
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	var g *domain.GlobalWorkout
	if req.GlobalWorkoutID != nil {
		var err error
		if g, err = h.library.Get(c.Request.Context(), *req.GlobalWorkoutID); err != nil {
			respondError(c, err, "Failed to load workout")
			return
		}
	}
	workoutID := c.Param("workoutId")
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		k, ok := tree.Workout(workoutID)
		if !ok {
			return plantree.ErrWorkoutNotFound
		}
		// The result is checked before anything changes.
		kind, cfg := k.Kind(), k.Config
		if g != nil && g.Type != kind {
			kind, cfg = g.Type, domain.DefaultConfig(g.Type)
		}
		if req.Config != nil {
			cfg = *req.Config
		}
		if err := checkConfig(kind, cfg); err != nil {
			return err
		}
		if g != nil {
			if err := tree.SetWorkoutReference(workoutID, g.ID, g.Display()); err != nil {
				return err
			}
		}
		if req.Config != nil {
			return tree.EditWorkout(workoutID, *req.Config)
		}
		return nil
	})
}

func (h *SessionHandler) DeleteWorkout(c *gin.Context) {
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.DeleteWorkout(c.Param("workoutId"))
	})
}

// MoveWorkout reorders a day; every order field is restamped.
func (h *SessionHandler) MoveWorkout(c *gin.Context) {
	var req MoveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.edit(c, http.StatusOK, func(tree *plantree.Tree) error {
		return tree.MoveWorkout(c.Param("dayId"), *req.From, *req.To)
	})
}
