package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"alcyxob/fitness-admin/internal/identity"
	"alcyxob/fitness-admin/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService    service.AuthService
	accountService service.AccountService
}

func NewAuthHandler(authService service.AuthService, accountService service.AccountService) *AuthHandler {
	return &AuthHandler{authService: authService, accountService: accountService}
}

// SignInResponse carries the dashboard session token.
type SignInResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

// SignIn godoc
// @Summary Sign in to the dashboard
// @Description Verifies a credential with the identity provider and issues a session token for admin accounts.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body identity.Credentials true "ID token, or email and password"
// @Success 200 {object} SignInResponse
// @Failure 401 {object} gin.H "Credential rejected"
// @Failure 403 {object} gin.H "Not an active admin"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var creds identity.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	token, account, err := h.authService.SignIn(c.Request.Context(), creds)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessDenied), errors.Is(err, service.ErrNotAdmin), errors.Is(err, service.ErrAccountInactive):
			abortWithError(c, http.StatusForbidden, service.SignInMessage(err))
		case errors.Is(err, service.ErrAuthenticationFailed):
			abortWithError(c, http.StatusUnauthorized, service.SignInMessage(err))
		default:
			respondError(c, err, service.SignInMessage(err))
		}
		return
	}
	c.JSON(http.StatusOK, SignInResponse{Token: token, Account: account})
}

// Me returns the signed-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	email, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get account from session")
		return
	}
	account, err := h.accountService.Get(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	c.JSON(http.StatusOK, account)
}
