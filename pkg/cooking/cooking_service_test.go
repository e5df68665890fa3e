package cooking

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	suggestions []domain.DeductionSuggestion
	err         error
	calls       int
	inventory   []domain.InventoryItem
}

func (f *fakeSuggester) SuggestDeductions(_ context.Context, _ string, inventory []domain.InventoryItem) ([]domain.DeductionSuggestion, error) {
	f.calls++
	f.inventory = inventory
	return f.suggestions, f.err
}

func TestSuggestDeductions(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	suggester := &fakeSuggester{suggestions: []domain.DeductionSuggestion{{ItemID: "1", Name: "Mjölk", CurrentQuantity: 1, DeductAmount: 0.3, Unit: domain.UnitLiter}}}
	svc := NewCookingService(f.inventory, f.sessions, f.reconciler, suggester)

	resp, err := svc.SuggestDeductions(context.Background(), owner, "  Pannkakor ")
	require.NoError(t, err)
	assert.Equal(t, "Pannkakor", resp.Dish)
	assert.Len(t, resp.Suggestions, 1)
	require.Len(t, suggester.inventory, 1)
	assert.Equal(t, "1", suggester.inventory[0].ID)

	suggester.err = errors.New("503 from upstream")
	_, err = svc.SuggestDeductions(context.Background(), owner, "Pannkakor")
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)

	_, err = svc.SuggestDeductions(context.Background(), owner, " ")
	assert.ErrorIs(t, err, domain.ErrEmptyDishName)
}

func TestSuggestDeductionsSkipsServiceForEmptyInventory(t *testing.T) {
	f := newFixture(t)
	suggester := &fakeSuggester{}
	svc := NewCookingService(f.inventory, f.sessions, f.reconciler, suggester)

	resp, err := svc.SuggestDeductions(context.Background(), owner, "Gröt")
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
	assert.Zero(t, suggester.calls)
}

func TestConfirmShowsNewSession(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	svc := NewCookingService(f.inventory, f.sessions, f.reconciler, &fakeSuggester{})
	ctx := context.Background()

	sessions, err := svc.GetSessions(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, sessions)

	result, err := svc.Confirm(ctx, owner, domain.ConfirmCookingRequest{
		DishName:    "Pannkakor",
		Suggestions: []domain.DeductionSuggestion{{ItemID: "1", DeductAmount: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsRemoved)

	sessions, err = svc.GetSessions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Pannkakor", sessions[0].DishName)
	assert.Equal(t, 15.0, sessions[0].TotalCost)
}

func TestPartialConfirmLeavesSessionVisible(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	svc := NewCookingService(f.inventory, f.sessions, f.reconciler, &fakeSuggester{})
	ctx := context.Background()

	sessions, err := svc.GetSessions(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, sessions)

	f.store.FailOn(memory.OpInsert, store.TableCookingSessionItems, errors.New("items rejected"))
	result, err := svc.Confirm(ctx, owner, domain.ConfirmCookingRequest{
		DishName:    "Gröt",
		Suggestions: []domain.DeductionSuggestion{{ItemID: "1", DeductAmount: 0.5}},
	})
	require.ErrorIs(t, err, domain.ErrReconcileFailed)
	require.NotEmpty(t, result.SessionID)

	sessions, err = svc.GetSessions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, result.SessionID, sessions[0].ID)
	assert.Empty(t, sessions[0].Items)
}

func TestGetSessionsRecoversAfterStoreError(t *testing.T) {
	f := newFixture(t)
	svc := NewCookingService(f.inventory, f.sessions, f.reconciler, &fakeSuggester{})
	ctx := context.Background()

	boom := errors.New("timeout")
	f.store.FailOn(memory.OpSelect, store.TableCookingSessions, boom)
	_, err := svc.GetSessions(ctx, owner)
	assert.ErrorIs(t, err, boom)

	f.store.FailOn(memory.OpSelect, store.TableCookingSessions, nil)
	sessions, err := svc.GetSessions(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
