package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/types"
)

const (
	maxInstructionsLength = 5000
	maxIngredientsLength  = 1000
	maxIngredientItems    = 50
)

var allowedUnits = map[string]bool{
	"gram":       true,
	"kilogram":   true,
	"milliliter": true,
	"liter":      true,
	"teaspoon":   true,
	"tablespoon": true,
	"cup":        true,
	"piece":      true,
}

// recipeSortMap whitelists the sort parameter; anything else is
// rejected at binding time.
var recipeSortMap = map[string]string{
	"createdAt.desc": "created_at DESC",
	"createdAt.asc":  "created_at ASC",
	"name.asc":       "name ASC",
}

// RecipeListFilters carries normalized list parameters after binding.
type RecipeListFilters struct {
	MealType      string
	Difficulty    string
	IsAIGenerated *bool
	Search        string
	Limit         int
	Offset        int
	Sort          string
}

// RecipeService implements ownership-scoped recipe CRUD. Every query
// carries a user_id predicate so other users' rows are invisible, not
// merely forbidden.
type RecipeService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewRecipeService(db *gorm.DB, logger *zap.Logger) *RecipeService {
	return &RecipeService{db: db, logger: logger}
}

// Create validates the command, inserts the recipe row and then the
// structured ingredient rows. The underlying store offers no usable
// cross-table transaction for the normalized path on the hosted
// backend this mirrors, so a failed ingredient insert triggers a
// compensating delete of the recipe row.
func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	if err := validateRecipePayload(req); err != nil {
		return nil, err
	}

	productMap, err := s.resolveProducts(ctx, req.IngredientItems)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:        userID,
		Name:          req.Name,
		MealType:      req.MealType,
		Difficulty:    req.Difficulty,
		Instructions:  req.Instructions,
		Ingredients:   req.Ingredients,
		IsAIGenerated: req.IsAIGenerated,
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, WrapInternal("failed to create recipe", err)
	}

	items, err := s.insertIngredientItems(ctx, recipe.ID, req.IngredientItems, productMap)
	if err != nil {
		if delErr := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", recipe.ID).Error; delErr != nil {
			s.logger.Error("compensating recipe delete failed",
				zap.String("recipe_id", recipe.ID.String()), zap.Error(delErr))
		}
		return nil, err
	}

	resp := toRecipeResponse(&recipe)
	resp.IngredientItems = items
	return resp, nil
}

// Get returns one recipe scoped to the owner.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID uuid.UUID) (*types.RecipeResponse, error) {
	recipe, err := s.findOwned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	items, err := s.loadIngredientItems(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}

	resp := toRecipeResponse(recipe)
	resp.IngredientItems = items
	return resp, nil
}

// Update replaces every mutable field. New structured ingredient rows
// are inserted before the superseded ones are removed, so a failed
// insert leaves the previous set intact.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	if err := validateRecipePayload(req); err != nil {
		return nil, err
	}

	recipe, err := s.findOwned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	productMap, err := s.resolveProducts(ctx, req.IngredientItems)
	if err != nil {
		return nil, err
	}

	recipe.Name = req.Name
	recipe.MealType = req.MealType
	recipe.Difficulty = req.Difficulty
	recipe.Instructions = req.Instructions
	recipe.Ingredients = req.Ingredients
	recipe.IsAIGenerated = req.IsAIGenerated

	if err := s.db.WithContext(ctx).Save(recipe).Error; err != nil {
		return nil, WrapInternal("failed to update recipe", err)
	}

	items, err := s.insertIngredientItems(ctx, recipe.ID, req.IngredientItems, productMap)
	if err != nil {
		return nil, err
	}

	cleanup := s.db.WithContext(ctx).Where("recipe_id = ?", recipe.ID)
	if len(items) > 0 {
		ids := make([]uuid.UUID, len(items))
		for i, item := range items {
			ids[i] = item.ID
		}
		cleanup = cleanup.Where("id NOT IN ?", ids)
	}
	if err := cleanup.Delete(&models.RecipeIngredient{}).Error; err != nil {
		return nil, WrapInternal("failed to clear recipe ingredients", err)
	}

	resp := toRecipeResponse(recipe)
	resp.IngredientItems = items
	return resp, nil
}

// Delete removes an owned recipe; its ingredient rows go with it. The
// ownership check runs first so a cross-user call touches nothing.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ? AND user_id = ?", recipeID, userID)
	if res.Error != nil {
		return WrapInternal("failed to delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewServiceError(CodeRecipeNotFound, "Recipe not found.")
	}

	if err := s.db.WithContext(ctx).Delete(&models.RecipeIngredient{}, "recipe_id = ?", recipeID).Error; err != nil {
		return WrapInternal("failed to delete recipe ingredients", err)
	}
	return nil
}

// List returns a filtered, sorted page together with the total count
// of matching rows.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, filters RecipeListFilters) (*types.RecipeListResponse, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("user_id = ?", userID)

	if filters.MealType != "" {
		query = query.Where("meal_type = ?", filters.MealType)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.IsAIGenerated != nil {
		query = query.Where("is_ai_generated = ?", *filters.IsAIGenerated)
	}
	if filters.Search != "" {
		like := "%" + escapeLikeTerm(strings.ToLower(filters.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(instructions) LIKE ? ESCAPE '\\'", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, WrapInternal("failed to count recipes", err)
	}

	order, ok := recipeSortMap[filters.Sort]
	if !ok {
		order = recipeSortMap["createdAt.desc"]
	}

	var recipes []models.Recipe
	if err := query.Order(order).Limit(filters.Limit).Offset(filters.Offset).Find(&recipes).Error; err != nil {
		return nil, WrapInternal("failed to list recipes", err)
	}

	items := make([]types.RecipeListItem, len(recipes))
	for i, r := range recipes {
		items[i] = types.RecipeListItem{
			ID:            r.ID,
			Name:          r.Name,
			MealType:      r.MealType,
			Difficulty:    r.Difficulty,
			IsAIGenerated: r.IsAIGenerated,
			CreatedAt:     r.CreatedAt,
			UpdatedAt:     r.UpdatedAt,
		}
	}

	return &types.RecipeListResponse{
		Items:  items,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *RecipeService) findOwned(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recipeID, userID).First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewServiceError(CodeRecipeNotFound, "Recipe not found.")
		}
		return nil, WrapInternal("failed to load recipe", err)
	}
	return &recipe, nil
}

// resolveProducts batch-loads every referenced product. A single
// unresolved ID fails the whole operation.
func (s *RecipeService) resolveProducts(ctx context.Context, items []types.RecipeIngredientInput) (map[uuid.UUID]models.Product, error) {
	if len(items) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, WrapInternal("failed to fetch products", err)
	}

	productMap := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}
	if len(productMap) != len(items) {
		return nil, NewServiceError(CodeProductNotFound, "One or more referenced products do not exist.")
	}
	return productMap, nil
}

func (s *RecipeService) insertIngredientItems(ctx context.Context, recipeID uuid.UUID, items []types.RecipeIngredientInput, productMap map[uuid.UUID]models.Product) ([]types.RecipeIngredientResponse, error) {
	if len(items) == 0 {
		return nil, nil
	}

	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{
			RecipeID:  recipeID,
			ProductID: item.ProductID,
			Amount:    item.Amount,
			Unit:      item.Unit,
		}
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, WrapInternal("failed to store recipe ingredients", err)
	}

	out := make([]types.RecipeIngredientResponse, len(rows))
	for i, row := range rows {
		product := productMap[row.ProductID]
		out[i] = types.RecipeIngredientResponse{
			ID:     row.ID,
			Amount: row.Amount,
			Unit:   row.Unit,
			Product: types.ProductResponse{
				ID:   product.ID,
				Name: product.Name,
			},
		}
	}
	return out, nil
}

func (s *RecipeService) loadIngredientItems(ctx context.Context, recipeID uuid.UUID) ([]types.RecipeIngredientResponse, error) {
	var rows []models.RecipeIngredient
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&rows).Error; err != nil {
		return nil, WrapInternal("failed to load recipe ingredients", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ProductID
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, WrapInternal("failed to load ingredient products", err)
	}
	productMap := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	out := make([]types.RecipeIngredientResponse, len(rows))
	for i, row := range rows {
		product := productMap[row.ProductID]
		out[i] = types.RecipeIngredientResponse{
			ID:     row.ID,
			Amount: row.Amount,
			Unit:   row.Unit,
			Product: types.ProductResponse{
				ID:   product.ID,
				Name: product.Name,
			},
		}
	}
	return out, nil
}

func validateRecipePayload(req *types.CreateRecipeRequest) error {
	if len(req.Instructions) > maxInstructionsLength {
		return NewServiceError(CodeInstructionsTooLong, "Instructions exceed the maximum allowed length.")
	}
	if len(req.Ingredients) > maxIngredientsLength {
		return NewServiceError(CodeIngredientsTooLong, "Ingredients exceed the maximum allowed length.")
	}
	if len(req.IngredientItems) > maxIngredientItems {
		return NewServiceError(CodeIngredientLimitExceeded, "The number of ingredients exceeds the allowed limit.")
	}

	seen := make(map[uuid.UUID]bool, len(req.IngredientItems))
	for _, item := range req.IngredientItems {
		if !allowedUnits[item.Unit] {
			return NewServiceError(CodeInvalidIngredientUnit, "One or more ingredients use an unsupported unit.")
		}
		if seen[item.ProductID] {
			return NewServiceError(CodeDuplicateIngredient, "Each ingredient must reference a unique product.")
		}
		seen[item.ProductID] = true
	}
	return nil
}

// escapeLikeTerm escapes %, _ and \ so user input cannot act as a
// LIKE wildcard.
func escapeLikeTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, `%`, `\%`)
	term = strings.ReplaceAll(term, `_`, `\_`)
	return term
}

func toRecipeResponse(r *models.Recipe) *types.RecipeResponse {
	return &types.RecipeResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		MealType:      r.MealType,
		Difficulty:    r.Difficulty,
		Instructions:  r.Instructions,
		Ingredients:   r.Ingredients,
		IsAIGenerated: r.IsAIGenerated,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
