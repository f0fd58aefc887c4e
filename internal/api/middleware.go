package api

import (
	"alcyxob/fitness-admin/internal/confirm"
	"alcyxob/fitness-admin/internal/service"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextAccountKey = "accountEmail"
	ContextRequestLog = "requestLogger"
)

// AuthMiddleware accepts a dashboard session token and re-checks the account
// on every request, so revoking admin access takes effect immediately.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		email, err := auth.ParseSession(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}

		if _, err := auth.Authorize(c.Request.Context(), email); err != nil {
			switch {
			case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrNotAdmin), errors.Is(err, service.ErrAccountInactive):
				abortWithError(c, http.StatusForbidden, service.SignInMessage(err))
			default:
				requestLogger(c).Error("authorize failed", zap.String("email", email), zap.Error(err))
				abortWithError(c, http.StatusInternalServerError, "Failed to verify access")
			}
			return
		}

		c.Set(ContextAccountKey, email)
		c.Next()
	}
}

// RequestLogger logs one line per request and hands a request-scoped logger
// to the handlers.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.With(zap.String("method", c.Request.Method), zap.String("path", c.FullPath()))
		c.Set(ContextRequestLog, reqLog)

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("clientIP", c.ClientIP()),
		}
		if email, ok := c.Get(ContextAccountKey); ok {
			fields = append(fields, zap.Any("account", email))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			reqLog.Error("request", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func requestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ContextRequestLog); ok {
		if log, ok := v.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// Helper function to get the signed-in account from context (used by handlers)
func getAccountFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get(ContextAccountKey)
	if !exists {
		return "", errors.New("account not found in context")
	}
	email, ok := raw.(string)
	if !ok {
		return "", errors.New("invalid account type in context")
	}
	return email, nil
}

// confirmation turns the confirm query flag into the answer for the
// service's confirmation step. Without it every destructive call is declined.
func confirmation(c *gin.Context) confirm.Confirmer {
	return confirm.Static(c.Query("confirm") == "true")
}
