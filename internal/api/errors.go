package api

import (
	"alcyxob/fitness-admin/internal/planio"
	"alcyxob/fitness-admin/internal/plantree"
	"alcyxob/fitness-admin/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to a status code. Anything unknown is
// logged and reported as a generic failure with the given message.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *planio.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusUnprocessableEntity, "Invalid plan file: "+verr.Error())
	case errors.Is(err, planio.ErrNotJSON):
		abortWithError(c, http.StatusBadRequest, "Please select a JSON file")
	case errors.Is(err, planio.ErrFileTooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, "File is too large")

	case errors.Is(err, service.ErrCancelled):
		abortWithError(c, http.StatusPreconditionRequired, "Confirmation required: repeat the request with confirm=true")
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSelfModification):
		abortWithError(c, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrGlobalWorkoutGone),
		errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, plantree.ErrWeekNotFound),
		errors.Is(err, plantree.ErrDayNotFound),
		errors.Is(err, plantree.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrGlobalWorkoutFound),
		errors.Is(err, service.ErrGlobalWorkoutInUse),
		errors.Is(err, service.ErrAccountExists),
		errors.Is(err, plantree.ErrLastWeek):
		abortWithError(c, http.StatusConflict, err.Error())

	case errors.Is(err, plantree.ErrIndexOutOfRange),
		errors.Is(err, plantree.ErrNoActiveWeek):
		abortWithError(c, http.StatusBadRequest, err.Error())

	default:
		requestLogger(c).Error(fallback, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
