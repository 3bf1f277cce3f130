package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/types"
)

// ProfileHandler exposes the per-user profile and the onboarding
// notice derived from it.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.Get)
	router.PATCH("/profile", h.Update)
	router.GET("/onboarding-notice", h.OnboardingNotice)
	router.POST("/onboarding-notice/dismiss", h.DismissOnboardingNotice)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	var req types.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) OnboardingNotice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	notice, err := h.profiles.OnboardingNotice(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (h *ProfileHandler) DismissOnboardingNotice(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	dismissal, err := h.profiles.DismissOnboardingNotice(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dismissal)
}
