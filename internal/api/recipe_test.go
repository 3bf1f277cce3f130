package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/service"
	"github.com/healthymeal/backend/internal/testhelpers"
	"github.com/healthymeal/backend/internal/types"
)

func newRecipeTestServer(t *testing.T) (*gin.Engine, uuid.UUID) {
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateTestUser(t, db, "cook@example.com", 10)
	handler := NewRecipeHandler(service.NewRecipeService(db, zap.NewNop()), zap.NewNop())
	engine := newProtectedRouter(user.ID, handler.RegisterRoutes)
	return engine, user.ID
}

func recipeBody() map[string]interface{} {
	return map[string]interface{}{
		"name":         "Pancakes",
		"mealType":     "breakfast",
		"difficulty":   "easy",
		"instructions": "Mix flour, milk and eggs. Fry until golden.",
		"ingredients":  "200g flour, 300ml milk, 2 eggs",
	}
}

func TestRecipeEndpointRoundTrip(t *testing.T) {
	engine, userID := newRecipeTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/recipes", recipeBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created types.RecipeResponse
	decodeBody(t, rec, &created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, userID, created.UserID)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched types.RecipeResponse
	decodeBody(t, rec, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Pancakes", fetched.Name)
	assert.Equal(t, "200g flour, 300ml milk, 2 eggs", fetched.Ingredients)
}

func TestRecipeEndpointValidation(t *testing.T) {
	engine, _ := newRecipeTestServer(t)

	t.Run("missing name", func(t *testing.T) {
		body := recipeBody()
		delete(body, "name")
		rec := doJSON(t, engine, http.MethodPost, "/api/recipes", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad meal type", func(t *testing.T) {
		body := recipeBody()
		body["mealType"] = "brunch"
		rec := doJSON(t, engine, http.MethodPost, "/api/recipes", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doJSON(t, engine, http.MethodGet, "/api/recipes/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_payload", errorCode(t, rec))
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, engine, http.MethodGet, "/api/recipes/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "recipe_not_found", errorCode(t, rec))
	})
}

func TestRecipeEndpointUpdateAndDelete(t *testing.T) {
	engine, _ := newRecipeTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/recipes", recipeBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.RecipeResponse
	decodeBody(t, rec, &created)

	update := recipeBody()
	update["name"] = "Fluffy Pancakes"
	rec = doJSON(t, engine, http.MethodPut, "/api/recipes/"+created.ID.String(), update)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated types.RecipeResponse
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Fluffy Pancakes", updated.Name)

	rec = doJSON(t, engine, http.MethodDelete, "/api/recipes/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipeEndpointListDefaults(t *testing.T) {
	engine, _ := newRecipeTestServer(t)

	for i := 0; i < 3; i++ {
		body := recipeBody()
		body["name"] = fmt.Sprintf("Pancakes %d", i)
		rec := doJSON(t, engine, http.MethodPost, "/api/recipes", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page types.RecipeListResponse
	decodeBody(t, rec, &page)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Items, 3)
}

func TestRecipeEndpointListRejectsBadQuery(t *testing.T) {
	engine, _ := newRecipeTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/recipes?limit=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/recipes?sort=updatedAt.desc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecipeEndpointRequiresAuth(t *testing.T) {
	engine, _ := newRecipeTestServer(t)

	req, rec := doUnauthenticated(http.MethodGet, "/api/recipes")
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
