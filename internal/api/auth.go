package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/types"
)

// AuthHandler exposes register, login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", middleware.AuthMiddleware(h.auth), h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, types.AuthResponse{
		Token: token,
		User:  types.AuthUser{ID: user.ID, Email: user.Email},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, types.AuthResponse{
		Token: token,
		User:  types.AuthUser{ID: user.ID, Email: user.Email},
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusOK)
}
