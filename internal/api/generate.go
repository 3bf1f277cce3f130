package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/middleware"
	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/types"
)

// GenerateHandler is the AI-generation proxy endpoint. It checks the
// quota before touching the upstream API and consumes one unit per
// successful generation.
type GenerateHandler struct {
	generator service.RecipeGenerator
	profiles  *service.ProfileService
	logger    *zap.Logger
}

func NewGenerateHandler(generator service.RecipeGenerator, profiles *service.ProfileService, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{generator: generator, profiles: profiles, logger: logger}
}

func (h *GenerateHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	router.POST("/recipes/generate", limit, h.Generate)
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	var req types.GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	// Refuse on an exhausted quota before any upstream call.
	profile, err := h.profiles.LoadProfile(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	if profile.AIRequestsCount <= 0 {
		respondError(c, service.CodeQuotaExhausted, "AI generation limit reached.")
		return
	}

	prompt := service.BuildGenerationPrompt(&req, profile)

	draft, err := h.generator.GenerateDraft(c.Request.Context(), prompt)
	if err != nil {
		h.respondGenerationError(c, err)
		return
	}

	updated, err := h.profiles.DecrementAIRequests(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, types.GenerateRecipeResponse{
		Draft:               *draft,
		AIRequestsRemaining: updated.AIRequestsCount,
	})
}

// respondGenerationError maps the AI client's error taxonomy: network
// failures 503, upstream errors 502/400 by status, undecodable bodies
// 502, schema mismatches 422 with the issue list attached.
func (h *GenerateHandler) respondGenerationError(c *gin.Context, err error) {
	var schemaErr *service.SchemaValidationError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
			Code:    "schema_validation_failed",
			Message: "Generated recipe does not match the expected schema.",
			Details: schemaErr.Issues,
		}})
		return
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadRequest
		if apiErr.Status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, errorEnvelope{Error: errorBody{
			Code:    "upstream_api_error",
			Message: "AI service rejected the request.",
		}})
		return
	}

	var jsonErr *service.InvalidJSONError
	if errors.As(err, &jsonErr) {
		c.JSON(http.StatusBadGateway, errorEnvelope{Error: errorBody{
			Code:    "invalid_upstream_response",
			Message: "Failed to parse AI response as valid JSON.",
		}})
		return
	}

	var netErr *service.NetworkError
	if errors.As(err, &netErr) {
		c.JSON(http.StatusServiceUnavailable, errorEnvelope{Error: errorBody{
			Code:    "ai_service_unavailable",
			Message: "Network error while communicating with the AI service.",
		}})
		return
	}

	h.logger.Error("recipe generation failed", zap.Error(err))
	respondError(c, service.CodeInternalError, "An internal server error occurred.")
}
