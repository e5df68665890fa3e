package recipe

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/inventory"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeSuggester struct {
	recipes []domain.Recipe
	err     error
	got     []domain.InventoryItem
}

func (f *fakeSuggester) SuggestRecipes(_ context.Context, inventory []domain.InventoryItem, _ time.Time) ([]domain.Recipe, error) {
	f.got = inventory
	return f.recipes, f.err
}

func newTestService(t *testing.T, suggester RecipeSuggester, expiries ...string) *recipeService {
	t.Helper()
	s := memory.New()
	for i, expiry := range expiries {
		e := expiry
		require.NoError(t, s.Insert(context.Background(), store.TableInventoryItems, entities.InventoryItem{
			UserID:     "u1",
			Name:       []string{"Mjölk", "Ris", "Kyckling"}[i%3],
			Quantity:   1,
			Unit:       domain.UnitPiece,
			ExpiryDate: &e,
			AddedAt:    fixedNow,
		}, nil))
	}
	svc := NewRecipeService(NewRecipeRepository(), inventory.NewInventoryRepository(s), suggester).(*recipeService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestGetRecipeRecommendations(t *testing.T) {
	suggester := &fakeSuggester{recipes: []domain.Recipe{{ID: "r1", Title: "Kycklinggryta"}, {ID: "r2", Title: "Risgrynsgröt"}}}
	svc := newTestService(t, suggester, "2024-05-02", "2025-01-01", "2024-05-03")
	ctx := context.Background()

	resp, err := svc.GetRecipeRecommendations(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalRecipes)
	assert.Equal(t, 2, resp.ExpiringItems)
	assert.Len(t, suggester.got, 3)

	latest := svc.GetLatestRecipes(ctx, "u1")
	assert.Equal(t, 2, latest.TotalRecipes)

	recipe, err := svc.GetRecipeDetail(ctx, "u1", "r2")
	require.NoError(t, err)
	assert.Equal(t, "Risgrynsgröt", recipe.Title)

	_, err = svc.GetRecipeDetail(ctx, "u2", "r2")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipeRecommendationsErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(t, &fakeSuggester{}).GetRecipeRecommendations(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrNoIngredients)

	failing := &fakeSuggester{err: errors.New("deadline exceeded")}
	resp, err := newTestService(t, failing, "2024-05-02").GetRecipeRecommendations(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)
	assert.Empty(t, resp.Recipes)
	assert.Equal(t, 1, resp.ExpiringItems)
}
