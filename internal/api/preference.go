package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/types"
)

// PreferenceHandler manages a user's product preference entries.
type PreferenceHandler struct {
	preferences *service.PreferenceService
	logger      *zap.Logger
}

func NewPreferenceHandler(preferences *service.PreferenceService, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences, logger: logger}
}

func (h *PreferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/preferences")
	{
		prefs.GET("", h.List)
		prefs.POST("", h.Create)
		prefs.DELETE("/:id", h.Delete)
	}
}

func (h *PreferenceHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	prefType := c.Query("type")
	switch prefType {
	case "", "like", "dislike", "allergen":
	default:
		respondError(c, service.CodeInvalidPayload, "Preference type must be one of: like, dislike, allergen.")
		return
	}

	page, err := h.preferences.List(c.Request.Context(), userID, prefType)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PreferenceHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	var req types.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	pref, err := h.preferences.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, pref)
}

func (h *PreferenceHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	prefID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.CodeInvalidPayload, "Preference id must be a valid UUID.")
		return
	}

	if err := h.preferences.Delete(c.Request.Context(), userID, prefID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
