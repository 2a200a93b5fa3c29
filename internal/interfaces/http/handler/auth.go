package handler

import (
	"context"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Authenticator is the session API behind the auth endpoints
type Authenticator interface {
	Login(ctx context.Context, p contract.LoginParams) (*contract.LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID int64) (*identity.User, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService Authenticator
	validator   *contract.Validator
	loginLimit  gin.HandlerFunc
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService Authenticator, validator *contract.Validator) *AuthHandler {
	if validator == nil {
		validator = contract.NewValidator()
	}
	return &AuthHandler{authService: authService, validator: validator}
}

// Login godoc
// @Summary      User login
// @Description  Authenticate user with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body contract.LoginParams true "Login credentials"
// @Success      200 {object} dto.Response{data=contract.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req contract.LoginParams
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, dto.ErrCodeInvalidJSON, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      User logout
// @Description  Revoke the current session token
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUnauthorized), dto.ErrCodeUnauthorized, "Not authenticated")
		return
	}
	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me godoc
// @Summary      Current user
// @Description  Returns the user the session belongs to
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.User}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetJWTUserID(c)
	if userID == 0 {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUnauthorized), dto.ErrCodeUnauthorized, "Not authenticated")
		return
	}
	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// LimitLogin installs a rate limiter in front of the login endpoint
func (h *AuthHandler) LimitLogin(limit gin.HandlerFunc) *AuthHandler {
	h.loginLimit = limit
	return h
}

// RegisterRoutes mounts the auth endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	if h.loginLimit != nil {
		group.POST("/login", h.loginLimit, h.Login)
	} else {
		group.POST("/login", h.Login)
	}
	group.POST("/logout", h.Logout)
	group.GET("/me", h.Me)
}
