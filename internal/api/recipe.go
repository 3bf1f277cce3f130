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

const (
	defaultListLimit = 20
	defaultSort      = "createdAt.desc"
)

// RecipeHandler exposes ownership-scoped recipe CRUD.
type RecipeHandler struct {
	recipes *service.RecipeService
	logger  *zap.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.POST("", h.Create)
		recipes.GET("/:id", h.Get)
		recipes.PUT("/:id", h.Update)
		recipes.DELETE("/:id", h.Delete)
	}
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.CodeInvalidPayload, "Recipe ID must be a valid UUID.")
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.CodeInvalidPayload, "Recipe ID must be a valid UUID.")
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, recipeID, &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, service.CodeInvalidPayload, "Recipe ID must be a valid UUID.")
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, recipeID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondError(c, service.CodeInternalError, "User context missing.")
		return
	}

	var query types.ListRecipesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindingError(c, err)
		return
	}

	filters := service.RecipeListFilters{
		MealType:      query.MealType,
		Difficulty:    query.Difficulty,
		IsAIGenerated: query.IsAIGenerated,
		Search:        query.Search,
		Limit:         defaultListLimit,
		Offset:        0,
		Sort:          defaultSort,
	}
	if query.Limit != nil {
		filters.Limit = *query.Limit
	}
	if query.Offset != nil {
		filters.Offset = *query.Offset
	}
	if query.Sort != "" {
		filters.Sort = query.Sort
	}

	result, err := h.recipes.List(c.Request.Context(), userID, filters)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
