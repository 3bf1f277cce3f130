package types

// RecipeDraft is the shape the LLM is forced to produce through the
// tool-call JSON schema. It is validated with the same enums and
// limits as manually created recipes before being returned.
type RecipeDraft struct {
	Name         string            `json:"name" validate:"required,max=50"`
	MealType     string            `json:"mealType" validate:"required,oneof=breakfast lunch dinner dessert snack"`
	Difficulty   string            `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Instructions string            `json:"instructions" validate:"required,max=5000"`
	Ingredients  []DraftIngredient `json:"ingredients" validate:"required,min=1,max=50,dive"`
}

// DraftIngredient is one generated ingredient line.
type DraftIngredient struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Unit   string  `json:"unit" validate:"required,max=30"`
}

// GenerateRecipeResponse pairs the draft with the remaining quota.
type GenerateRecipeResponse struct {
	Draft               RecipeDraft `json:"draft"`
	AIRequestsRemaining int         `json:"aiRequestsRemaining"`
}
