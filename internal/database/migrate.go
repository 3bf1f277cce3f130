package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
)

// Migrate brings the schema up to date for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Product{},
		&models.UserPreference{},
		&models.Recipe{},
		&models.RecipeIngredient{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// defaultProducts is the starter catalog seeded on first boot so
// preference and ingredient pickers are not empty.
var defaultProducts = []string{
	"chicken breast", "beef", "pork", "salmon", "tuna", "egg",
	"milk", "butter", "cheese", "yogurt", "cream",
	"rice", "pasta", "bread", "flour", "oats", "potato",
	"tomato", "onion", "garlic", "carrot", "broccoli", "spinach",
	"pepper", "cucumber", "lettuce", "mushroom", "zucchini",
	"apple", "banana", "lemon", "orange", "strawberry",
	"olive oil", "sugar", "salt", "honey",
	"peanut", "almond", "walnut", "soy sauce", "tofu",
	"shrimp", "chickpeas", "lentils", "beans",
}

// SeedProducts inserts the starter catalog, skipping names that
// already exist.
func SeedProducts(db *gorm.DB) error {
	for _, name := range defaultProducts {
		product := models.Product{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", name, err)
		}
	}
	return nil
}
