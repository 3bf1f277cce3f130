package service

import (
	"fmt"
	"strings"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

// BuildGenerationPrompt turns the generation form into the natural
// language prompt sent upstream, folding in the caller's preference
// notes so the model avoids disliked ingredients and allergens.
func BuildGenerationPrompt(req *types.GenerateRecipeRequest, profile *models.Profile) string {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "any"
	}
	mainIngredient := strings.TrimSpace(req.MainIngredient)
	if mainIngredient == "" {
		mainIngredient = "any main ingredient"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an experienced chef. Your task is to create a %s recipe.\n", req.MealType)
	if profile.DislikedIngredientsNote != nil {
		fmt.Fprintf(&b, "Make sure the recipe avoids ingredients I dislike: %s.\n", *profile.DislikedIngredientsNote)
	}
	if profile.AllergensNote != nil {
		fmt.Fprintf(&b, "The recipe must not contain my allergens: %s.\n", *profile.AllergensNote)
	}
	fmt.Fprintf(&b, "The main ingredient of the recipe should be: %s.\n", mainIngredient)
	fmt.Fprintf(&b, "The difficulty level of the recipe should be %s.\n", difficulty)
	b.WriteString("Generate a recipe with instructions of at most 5000 characters.\n")
	b.WriteString("The meal type must be one of: breakfast, lunch, dinner, dessert, snack.\n")
	b.WriteString("The difficulty must be one of: easy, medium, hard.")
	return b.String()
}
