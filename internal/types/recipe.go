package types

import (
	"time"

	"github.com/google/uuid"
)

// RecipeResponse is the full recipe DTO returned by create, get and
// update. JSON field names follow the camelCase API contract; the
// snake_case database row shape never crosses the boundary.
type RecipeResponse struct {
	ID              uuid.UUID                  `json:"id"`
	UserID          uuid.UUID                  `json:"userId"`
	Name            string                     `json:"name"`
	MealType        string                     `json:"mealType"`
	Difficulty      string                     `json:"difficulty"`
	Instructions    string                     `json:"instructions"`
	Ingredients     string                     `json:"ingredients"`
	IsAIGenerated   bool                       `json:"isAiGenerated"`
	CreatedAt       time.Time                  `json:"createdAt"`
	UpdatedAt       time.Time                  `json:"updatedAt"`
	IngredientItems []RecipeIngredientResponse `json:"ingredientItems,omitempty"`
}

// RecipeIngredientResponse is a structured ingredient row with its
// product snapshot embedded.
type RecipeIngredientResponse struct {
	ID      uuid.UUID       `json:"id"`
	Amount  float64         `json:"amount"`
	Unit    string          `json:"unit"`
	Product ProductResponse `json:"product"`
}

// RecipeListItem is the reduced shape used in list views.
type RecipeListItem struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MealType      string    `json:"mealType"`
	Difficulty    string    `json:"difficulty"`
	IsAIGenerated bool      `json:"isAiGenerated"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RecipeListResponse is the paginated envelope for recipe lists.
type RecipeListResponse struct {
	Items  []RecipeListItem `json:"items"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ProductResponse is the catalog product DTO.
type ProductResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductListResponse is the paginated envelope for the product catalog.
type ProductListResponse struct {
	Items  []ProductResponse `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// PreferenceResponse is one user-product preference with its product.
type PreferenceResponse struct {
	ID             uuid.UUID       `json:"id"`
	PreferenceType string          `json:"preferenceType"`
	CreatedAt      time.Time       `json:"createdAt"`
	Product        ProductResponse `json:"product"`
}

// PreferenceListResponse wraps the user's preference list.
type PreferenceListResponse struct {
	Items []PreferenceResponse `json:"items"`
}
