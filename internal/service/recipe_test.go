package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/healthymeal/backend/internal/models"
	"github.com/healthymeal/backend/internal/testhelpers"
	"github.com/healthymeal/backend/internal/types"
)

func newRecipeFixture(t *testing.T) (*RecipeService, *models.User) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	return NewRecipeService(db, zap.NewNop()), user
}

func validCreateRequest() *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name:         "Tomato Soup",
		MealType:     models.MealTypeDinner,
		Difficulty:   models.DifficultyEasy,
		Instructions: "Chop tomatoes, simmer for 20 minutes, blend.",
		Ingredients:  "4 tomatoes, 1 onion, salt",
	}
}

func TestRecipeCreateAndGetRoundTrip(t *testing.T) {
	svc, user := newRecipeFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, validCreateRequest())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, user.ID, created.UserID)
	assert.False(t, created.IsAIGenerated)

	got, err := svc.Get(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Tomato Soup", got.Name)
	assert.Equal(t, "4 tomatoes, 1 onion, salt", got.Ingredients)
	assert.Equal(t, "Chop tomatoes, simmer for 20 minutes, blend.", got.Instructions)
}

func TestRecipeCreateWithIngredientItems(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	tomato := testhelpers.CreateTestProduct(t, db, "tomato")
	onion := testhelpers.CreateTestProduct(t, db, "onion")
	svc := NewRecipeService(db, zap.NewNop())

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: tomato.ID, Amount: 400, Unit: "gram"},
		{ProductID: onion.ID, Amount: 1, Unit: "piece"},
	}

	created, err := svc.Create(context.Background(), user.ID, req)
	require.NoError(t, err)
	require.Len(t, created.IngredientItems, 2)
	assert.Equal(t, "tomato", created.IngredientItems[0].Product.Name)
	assert.Equal(t, 400.0, created.IngredientItems[0].Amount)

	got, err := svc.Get(context.Background(), user.ID, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.IngredientItems, 2)
}

func TestRecipeCreateUnknownProduct(t *testing.T) {
	svc, user := newRecipeFixture(t)

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: uuid.New(), Amount: 1, Unit: "piece"},
	}

	_, err := svc.Create(context.Background(), user.ID, req)
	assertServiceErrorCode(t, err, CodeProductNotFound)
}

func TestRecipeValidationCodes(t *testing.T) {
	svc, user := newRecipeFixture(t)
	ctx := context.Background()

	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	t.Run("instructions too long", func(t *testing.T) {
		req := validCreateRequest()
		req.Instructions = long(5001)
		_, err := svc.Create(ctx, user.ID, req)
		assertServiceErrorCode(t, err, CodeInstructionsTooLong)
	})

	t.Run("ingredients too long", func(t *testing.T) {
		req := validCreateRequest()
		req.Ingredients = long(1001)
		_, err := svc.Create(ctx, user.ID, req)
		assertServiceErrorCode(t, err, CodeIngredientsTooLong)
	})

	t.Run("too many ingredient items", func(t *testing.T) {
		req := validCreateRequest()
		for i := 0; i < 51; i++ {
			req.IngredientItems = append(req.IngredientItems, types.RecipeIngredientInput{
				ProductID: uuid.New(), Amount: 1, Unit: "gram",
			})
		}
		_, err := svc.Create(ctx, user.ID, req)
		assertServiceErrorCode(t, err, CodeIngredientLimitExceeded)
	})

	t.Run("bad unit", func(t *testing.T) {
		req := validCreateRequest()
		req.IngredientItems = []types.RecipeIngredientInput{
			{ProductID: uuid.New(), Amount: 1, Unit: "handful"},
		}
		_, err := svc.Create(ctx, user.ID, req)
		assertServiceErrorCode(t, err, CodeInvalidIngredientUnit)
	})

	t.Run("duplicate product", func(t *testing.T) {
		req := validCreateRequest()
		id := uuid.New()
		req.IngredientItems = []types.RecipeIngredientInput{
			{ProductID: id, Amount: 1, Unit: "gram"},
			{ProductID: id, Amount: 2, Unit: "gram"},
		}
		_, err := svc.Create(ctx, user.ID, req)
		assertServiceErrorCode(t, err, CodeDuplicateIngredient)
	})
}

func TestRecipeOwnershipScoping(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	owner, _ := testhelpers.CreateTestUser(t, db, "owner@example.com", 10)
	intruder, _ := testhelpers.CreateTestUser(t, db, "intruder@example.com", 10)
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, owner.ID, validCreateRequest())
	require.NoError(t, err)

	// Another user's recipe is invisible, not forbidden.
	_, err = svc.Get(ctx, intruder.ID, created.ID)
	assertServiceErrorCode(t, err, CodeRecipeNotFound)

	_, err = svc.Update(ctx, intruder.ID, created.ID, validCreateRequest())
	assertServiceErrorCode(t, err, CodeRecipeNotFound)

	err = svc.Delete(ctx, intruder.ID, created.ID)
	assertServiceErrorCode(t, err, CodeRecipeNotFound)

	// The owner still sees it untouched.
	_, err = svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
}

func TestRecipeCrossUserDeleteLeavesIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	owner, _ := testhelpers.CreateTestUser(t, db, "owner@example.com", 10)
	intruder, _ := testhelpers.CreateTestUser(t, db, "intruder@example.com", 10)
	product := testhelpers.CreateTestProduct(t, db, "tomato")
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: product.ID, Amount: 2, Unit: "piece"},
	}
	created, err := svc.Create(ctx, owner.ID, req)
	require.NoError(t, err)

	err = svc.Delete(ctx, intruder.ID, created.ID)
	assertServiceErrorCode(t, err, CodeRecipeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecipeUpdateReplacesIngredientItems(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	tomato := testhelpers.CreateTestProduct(t, db, "tomato")
	basil := testhelpers.CreateTestProduct(t, db, "basil")
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: tomato.ID, Amount: 400, Unit: "gram"},
	}
	created, err := svc.Create(ctx, user.ID, req)
	require.NoError(t, err)

	update := validCreateRequest()
	update.Name = "Tomato Basil Soup"
	update.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: basil.ID, Amount: 10, Unit: "gram"},
	}
	updated, err := svc.Update(ctx, user.ID, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Basil Soup", updated.Name)
	require.Len(t, updated.IngredientItems, 1)
	assert.Equal(t, "basil", updated.IngredientItems[0].Product.Name)
}

func TestRecipeUpdateKeepsIngredientsOnInsertFailure(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	tomato := testhelpers.CreateTestProduct(t, db, "tomato")
	basil := testhelpers.CreateTestProduct(t, db, "basil")
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: tomato.ID, Amount: 400, Unit: "gram"},
	}
	created, err := svc.Create(ctx, user.ID, req)
	require.NoError(t, err)

	insertErr := errors.New("ingredient insert rejected")
	err = db.Callback().Create().Before("gorm:create").Register("reject_ingredient_insert", func(tx *gorm.DB) {
		if tx.Statement.Table == "recipe_ingredients" {
			tx.AddError(insertErr)
		}
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("reject_ingredient_insert")

	update := validCreateRequest()
	update.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: basil.ID, Amount: 10, Unit: "gram"},
	}
	_, err = svc.Update(ctx, user.ID, created.ID, update)
	assertServiceErrorCode(t, err, CodeInternalError)

	var rows []models.RecipeIngredient
	require.NoError(t, db.Where("recipe_id = ?", created.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, tomato.ID, rows[0].ProductID)
}

func TestRecipeDeleteRemovesIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	product := testhelpers.CreateTestProduct(t, db, "tomato")
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	req := validCreateRequest()
	req.IngredientItems = []types.RecipeIngredientInput{
		{ProductID: product.ID, Amount: 1, Unit: "piece"},
	}
	created, err := svc.Create(ctx, user.ID, req)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, created.ID))

	_, err = svc.Get(ctx, user.ID, created.ID)
	assertServiceErrorCode(t, err, CodeRecipeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRecipeListFiltersAndPagination(t *testing.T) {
	svc, user := newRecipeFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := validCreateRequest()
		req.Name = fmt.Sprintf("Dinner %d", i)
		_, err := svc.Create(ctx, user.ID, req)
		require.NoError(t, err)
	}
	aiReq := validCreateRequest()
	aiReq.Name = "Robot Pancakes"
	aiReq.MealType = models.MealTypeBreakfast
	aiReq.IsAIGenerated = true
	_, err := svc.Create(ctx, user.ID, aiReq)
	require.NoError(t, err)

	t.Run("meal type filter", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, RecipeListFilters{
			MealType: models.MealTypeBreakfast, Limit: 20, Sort: "createdAt.desc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Robot Pancakes", page.Items[0].Name)
	})

	t.Run("ai flag filter", func(t *testing.T) {
		aiOnly := true
		page, err := svc.List(ctx, user.ID, RecipeListFilters{
			IsAIGenerated: &aiOnly, Limit: 20, Sort: "createdAt.desc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("pagination partitions all rows", func(t *testing.T) {
		seen := make(map[uuid.UUID]bool)
		for offset := 0; ; offset += 2 {
			page, err := svc.List(ctx, user.ID, RecipeListFilters{
				Limit: 2, Offset: offset, Sort: "name.asc",
			})
			require.NoError(t, err)
			assert.Equal(t, int64(6), page.Total)
			if len(page.Items) == 0 {
				break
			}
			for _, item := range page.Items {
				assert.False(t, seen[item.ID], "row %s returned twice", item.ID)
				seen[item.ID] = true
			}
		}
		assert.Len(t, seen, 6)
	})

	t.Run("name sort", func(t *testing.T) {
		page, err := svc.List(ctx, user.ID, RecipeListFilters{Limit: 50, Sort: "name.asc"})
		require.NoError(t, err)
		require.NotEmpty(t, page.Items)
		for i := 1; i < len(page.Items); i++ {
			assert.LessOrEqual(t, page.Items[i-1].Name, page.Items[i].Name)
		}
	})
}

func TestRecipeListSearchEscapesWildcards(t *testing.T) {
	svc, user := newRecipeFixture(t)
	ctx := context.Background()

	literal := validCreateRequest()
	literal.Name = "100% Rye Bread"
	_, err := svc.Create(ctx, user.ID, literal)
	require.NoError(t, err)

	other := validCreateRequest()
	other.Name = "Plain Bread"
	_, err = svc.Create(ctx, user.ID, other)
	require.NoError(t, err)

	// "100%" must match the literal percent sign, not act as a wildcard.
	page, err := svc.List(ctx, user.ID, RecipeListFilters{Search: "100%", Limit: 20, Sort: "createdAt.desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// An underscore pattern that would match anything when unescaped.
	page, err = svc.List(ctx, user.ID, RecipeListFilters{Search: "_____", Limit: 20, Sort: "createdAt.desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
}

func TestRecipeListScopedToUser(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	alice, _ := testhelpers.CreateTestUser(t, db, "alice@example.com", 10)
	bob, _ := testhelpers.CreateTestUser(t, db, "bob@example.com", 10)
	svc := NewRecipeService(db, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, alice.ID, validCreateRequest())
	require.NoError(t, err)

	page, err := svc.List(ctx, bob.ID, RecipeListFilters{Limit: 20, Sort: "createdAt.desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Empty(t, page.Items)
}

func assertServiceErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, code, svcErr.Code)
}
