package types

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the bearer token and a minimal user echo.
type AuthResponse struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// RecipeIngredientInput is one structured ingredient item referencing
// the product catalog.
type RecipeIngredientInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
	Unit      string    `json:"unit" binding:"required,oneof=gram kilogram milliliter liter teaspoon tablespoon cup piece"`
}

// CreateRecipeRequest is the body of POST /api/recipes. Ingredients is
// the free-text blob; IngredientItems optionally adds normalized rows
// against the product catalog.
type CreateRecipeRequest struct {
	Name            string                  `json:"name" binding:"required,max=50"`
	MealType        string                  `json:"mealType" binding:"required,oneof=breakfast lunch dinner dessert snack"`
	Difficulty      string                  `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Instructions    string                  `json:"instructions" binding:"required"`
	Ingredients     string                  `json:"ingredients" binding:"required"`
	IsAIGenerated   bool                    `json:"isAiGenerated"`
	IngredientItems []RecipeIngredientInput `json:"ingredientItems" binding:"omitempty,dive"`
}

// UpdateRecipeRequest mirrors the create body; updates replace every
// field including the structured ingredient rows.
type UpdateRecipeRequest = CreateRecipeRequest

// ListRecipesQuery holds the query parameters of GET /api/recipes.
// Pointer fields distinguish "absent" from zero values.
type ListRecipesQuery struct {
	MealType      string `form:"mealType" binding:"omitempty,oneof=breakfast lunch dinner dessert snack"`
	Difficulty    string `form:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	IsAIGenerated *bool  `form:"isAiGenerated"`
	Search        string `form:"search" binding:"omitempty,max=50"`
	Limit         *int   `form:"limit" binding:"omitempty,min=1,max=50"`
	Offset        *int   `form:"offset" binding:"omitempty,min=0"`
	Sort          string `form:"sort" binding:"omitempty,oneof=createdAt.desc createdAt.asc name.asc"`
}

// ListProductsQuery holds the query parameters of GET /api/products.
type ListProductsQuery struct {
	Search string `form:"search" binding:"omitempty,max=50"`
	Limit  *int   `form:"limit" binding:"omitempty,min=1,max=50"`
	Offset *int   `form:"offset" binding:"omitempty,min=0"`
	Sort   string `form:"sort" binding:"omitempty,oneof=name.asc name.desc"`
}

// CreatePreferenceRequest is the body of POST /api/preferences.
type CreatePreferenceRequest struct {
	ProductID      uuid.UUID `json:"productId" binding:"required"`
	PreferenceType string    `json:"preferenceType" binding:"required,oneof=like dislike allergen"`
}

// UpdateProfileRequest is the body of PATCH /api/profile. A nil
// pointer leaves a field untouched; a blank note clears it to NULL.
type UpdateProfileRequest struct {
	DislikedIngredientsNote           *string    `json:"dislikedIngredientsNote" binding:"omitempty,max=200"`
	AllergensNote                     *string    `json:"allergensNote" binding:"omitempty,max=200"`
	OnboardingNotificationHiddenUntil *time.Time `json:"onboardingNotificationHiddenUntil"`
}

// GenerateRecipeRequest is the body of POST /api/recipes/generate.
type GenerateRecipeRequest struct {
	MealType       string `json:"mealType" binding:"required,oneof=breakfast lunch dinner dessert snack"`
	MainIngredient string `json:"mainIngredient" binding:"omitempty,max=100"`
	Difficulty     string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}
