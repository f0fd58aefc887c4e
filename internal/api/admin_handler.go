package api

import (
	"alcyxob/fitness-admin/internal/notify"
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationSource is what the dashboard polls for outcome messages.
type NotificationSource interface {
	Drain() []notify.Notification
	Dismiss(id string) bool
}

// AdminHandler holds the maintenance endpoints: the workout migration and
// the notification feed.
type AdminHandler struct {
	migrations    service.MigrationService
	notifications NotificationSource
}

func NewAdminHandler(migrations service.MigrationService, notifications NotificationSource) *AdminHandler {
	return &AdminHandler{migrations: migrations, notifications: notifications}
}

type MigrationResponse struct {
	Stats     *service.MigrationStats `json:"stats"`
	ReportKey string                  `json:"reportKey,omitempty"`
	ReportURL string                  `json:"reportUrl,omitempty"`
}

// MigrateWorkouts godoc
// @Summary Rewrite legacy workouts to library references
// @Description Irreversible unless dryRun=true. Requires confirm=true.
// @Tags Migrations
// @Produce json
// @Security BearerAuth
// @Param dryRun query bool false "Classify without writing"
// @Param confirm query bool true "Confirm the migration"
// @Success 200 {object} MigrationResponse
// @Failure 428 {object} gin.H "Confirmation missing"
// @Router /migrations/workouts [post]
func (h *AdminHandler) MigrateWorkouts(c *gin.Context) {
	stats, err := h.migrations.MigrateWorkouts(c.Request.Context(), service.MigrationOptions{
		DryRun:    c.Query("dryRun") == "true",
		Confirmer: confirmation(c),
	})
	if err != nil {
		respondError(c, err, "Migration failed")
		return
	}
	resp := MigrationResponse{Stats: stats}
	// The run already happened; a report that cannot be stored is only logged.
	if resp.ReportKey, resp.ReportURL, err = h.migrations.SaveReport(c.Request.Context(), stats); err != nil {
		requestLogger(c).Warn("migration report not stored", zap.Error(err))
	}
	c.JSON(http.StatusOK, resp)
}

// DrainNotifications returns the pending messages and clears them.
func (h *AdminHandler) DrainNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifications.Drain())
}

func (h *AdminHandler) DismissNotification(c *gin.Context) {
	if !h.notifications.Dismiss(c.Param("id")) {
		abortWithError(c, http.StatusNotFound, "notification not found")
		return
	}
	c.Status(http.StatusNoContent)
}
