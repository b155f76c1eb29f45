package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, login and the current session
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register godoc
// @Summary      Register a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RegisterRequest true "Account details"
// @Success      201 {object} dto.Response{data=appidentity.LoginResult}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, result)
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{data=appidentity.LoginResult}
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Revoke the current token
// @Tags         auth
// @Success      204
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.NoContent(c)
		return
	}

	err := h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{
		TokenJTI: claims.ID,
		TTL:      claims.RemainingTTL(time.Now()),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=appidentity.UserResponse}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, user)
}
