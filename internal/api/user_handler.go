package api

import (
	"alcyxob/fitness-admin/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler manages dashboard accounts. The acting admin is always the
// signed-in account, which the service refuses to modify.
type UserHandler struct {
	accounts service.AccountService
}

func NewUserHandler(accounts service.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load users")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	a, err := h.accounts.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "Failed to load user")
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateUser godoc
// @Summary Provision a dashboard account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.NewAccount true "Account details"
// @Success 201 {object} domain.Account
// @Failure 409 {object} gin.H "Account exists"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return
	}
	var req service.NewAccount
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	a, err := h.accounts.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return
	}
	var req service.AccountUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	a, err := h.accounts.Update(c.Request.Context(), actor, c.Param("email"), req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteUser requires confirm=true.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, err := getAccountFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify account from session.")
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), actor, c.Param("email"), confirmation(c)); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
