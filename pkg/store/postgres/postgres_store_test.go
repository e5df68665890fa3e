package postgres

import (
	"context"
	"testing"

	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel(t *testing.T) {
	model, err := newModel(store.TableMealPlan)
	require.NoError(t, err)
	assert.IsType(t, &entities.MealPlan{}, model)

	other, err := newModel(store.TableMealPlan)
	require.NoError(t, err)
	assert.NotSame(t, model, other)

	_, err = newModel("pantry")
	assert.ErrorIs(t, err, store.ErrUnknownTable)
}

func TestModelsCoverEveryTable(t *testing.T) {
	assert.Len(t, Models(), len(models))
}

func TestWritesRequireFilters(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()
	assert.ErrorIs(t, s.Update(ctx, store.TableInventoryItems, nil, map[string]any{"quantity": 1}), store.ErrMissingFilter)
	assert.ErrorIs(t, s.Delete(ctx, store.TableInventoryItems, nil), store.ErrMissingFilter)
}
