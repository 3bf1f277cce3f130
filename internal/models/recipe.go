package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal types and difficulties accepted across the API.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeDessert   = "dessert"
	MealTypeSnack     = "snack"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type Recipe struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string    `gorm:"size:50;not null" json:"name"`
	MealType      string    `gorm:"size:20;not null" json:"meal_type"`
	Difficulty    string    `gorm:"size:20;not null" json:"difficulty"`
	Instructions  string    `gorm:"type:text;not null" json:"instructions"`
	Ingredients   string    `gorm:"type:text;not null" json:"ingredients"`
	IsAIGenerated bool      `gorm:"not null;default:false" json:"is_ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	IngredientItems []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient links a recipe to a catalog product with an amount
// and unit. Rows are replaced wholesale on recipe update.
type RecipeIngredient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Unit      string    `gorm:"size:20;not null" json:"unit"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
