package cooking

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/consumption"
	"MatSmart-Lager/pkg/inventory"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "user-1"

var fixedNow = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

type fixture struct {
	store      *memory.Store
	inventory  inventory.InventoryRepository
	logs       consumption.ConsumptionRepository
	sessions   SessionRepository
	reconciler *reconciler
}

func newFixture(t *testing.T, items ...entities.InventoryItem) fixture {
	t.Helper()
	s := memory.New()
	for _, item := range items {
		item.UserID = owner
		item.AddedAt = fixedNow
		require.NoError(t, s.Insert(context.Background(), store.TableInventoryItems, item, nil))
	}

	f := fixture{
		store:     s,
		inventory: inventory.NewInventoryRepository(s),
		logs:      consumption.NewConsumptionRepository(s),
		sessions:  NewSessionRepository(s),
	}
	f.reconciler = NewReconciler(f.inventory, f.logs, f.sessions).(*reconciler)
	f.reconciler.now = func() time.Time { return fixedNow }
	return f
}

func priced(id, name string, qty float64, unit string, price *float64) entities.InventoryItem {
	return entities.InventoryItem{ID: id, Name: name, Quantity: qty, Unit: unit, PriceInfo: price, Source: domain.SourceReceipt}
}

func price(v float64) *float64 { return &v }

func (f fixture) item(t *testing.T, id string) (domain.InventoryItem, bool) {
	t.Helper()
	items, err := f.inventory.List(context.Background(), owner)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.InventoryItem{}, false
}

func TestReconcileRoundTrip(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	ctx := context.Background()

	result, err := f.reconciler.Reconcile(ctx, owner, "Pannkakor", []domain.DeductionSuggestion{
		{ItemID: "1", Name: "Mjölk", CurrentQuantity: 1, DeductAmount: 0.5, Unit: domain.UnitLiter},
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, result.TotalCost)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 1, result.ItemsAdded)
	assert.Equal(t, 1, result.ItemsUpdated)
	assert.Equal(t, 1, result.LogsAdded)

	item, ok := f.item(t, "1")
	require.True(t, ok)
	assert.Equal(t, 0.5, item.Quantity)

	logs, err := f.logs.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 7.5, logs[0].Cost)
	assert.Equal(t, 0.5, logs[0].QuantityUsed)
	assert.Equal(t, domain.ReasonCooked, logs[0].Reason)
	assert.Equal(t, "Pannkakor", logs[0].DishName)
	assert.Equal(t, domain.UnitLiter, logs[0].Unit)

	sessions, err := f.sessions.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, result.SessionID, sessions[0].ID)
	assert.Equal(t, 7.5, sessions[0].TotalCost)
	require.Len(t, sessions[0].Items, 1)
	assert.Equal(t, 7.5, sessions[0].Items[0].Cost)
	assert.Equal(t, "Mjölk", sessions[0].Items[0].ItemName)
}

func TestReconcileDeletesWhenDeductionCoversQuantity(t *testing.T) {
	f := newFixture(t,
		priced("1", "Mjölk", 1, domain.UnitLiter, price(15)),
		priced("2", "Ägg", 6, domain.UnitPiece, price(30)),
	)

	result, err := f.reconciler.Reconcile(context.Background(), owner, "Omelett", []domain.DeductionSuggestion{
		{ItemID: "1", DeductAmount: 1},
		{ItemID: "2", DeductAmount: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsRemoved)
	assert.Zero(t, result.ItemsUpdated)

	_, ok := f.item(t, "1")
	assert.False(t, ok)
	_, ok = f.item(t, "2")
	assert.False(t, ok)
	assert.Empty(t, f.store.Rows(store.TableInventoryItems))
}

func TestReconcileCostApportionmentAndTotal(t *testing.T) {
	f := newFixture(t,
		priced("1", "Köttfärs", 0.5, domain.UnitKilogram, price(60)),
		priced("2", "Lök", 3, domain.UnitPiece, nil),
		priced("3", "Krossade tomater", 2, domain.UnitPackage, price(25)),
	)

	result, err := f.reconciler.Reconcile(context.Background(), owner, "Köttfärssås", []domain.DeductionSuggestion{
		{ItemID: "1", DeductAmount: 0.4},
		{ItemID: "2", DeductAmount: 1},
		{ItemID: "3", DeductAmount: 1},
	})
	require.NoError(t, err)

	// 60 * 0.4/0.5 = 48, no price = 0, 25 * 1/2 = 12.5
	assert.Equal(t, 60.5, result.TotalCost)

	logs, err := f.logs.List(context.Background(), owner)
	require.NoError(t, err)
	costs := map[string]float64{}
	for _, l := range logs {
		costs[l.ItemName] = l.Cost
	}
	assert.Equal(t, map[string]float64{"Köttfärs": 48, "Lök": 0, "Krossade tomater": 12.5}, costs)

	item, ok := f.item(t, "1")
	require.True(t, ok)
	assert.Equal(t, 0.1, item.Quantity)
}

func TestReconcileSkipsUnmatchedSuggestions(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))

	result, err := f.reconciler.Reconcile(context.Background(), owner, "Gröt", []domain.DeductionSuggestion{
		{ItemID: "missing", DeductAmount: 2},
		{ItemID: "1", DeductAmount: 0.25},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"missing"}, result.Skipped)
	assert.Equal(t, 1, result.ItemsAdded)
	assert.Equal(t, 1, result.LogsAdded)
	assert.Equal(t, 3.75, result.TotalCost)
	assert.Len(t, f.store.Rows(store.TableCookingSessionItems), 1)
	assert.Len(t, f.store.Rows(store.TableConsumptionLogs), 1)
}

func TestReconcileSessionFailureLeavesInventoryUntouched(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	boom := errors.New("insert rejected")
	f.store.FailOn(memory.OpInsert, store.TableCookingSessions, boom)

	result, err := f.reconciler.Reconcile(context.Background(), owner, "Gröt", []domain.DeductionSuggestion{
		{ItemID: "1", DeductAmount: 0.5},
	})
	assert.ErrorIs(t, err, domain.ErrReconcileFailed)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, result.SessionID)

	for _, call := range f.store.Calls() {
		assert.NotEqual(t, memory.OpUpdate, call.Op)
		assert.NotEqual(t, memory.OpDelete, call.Op)
	}
	rows := f.store.Rows(store.TableInventoryItems)
	require.Len(t, rows, 1)
	assert.Equal(t, 1.0, rows[0]["quantity"])
	assert.Empty(t, f.store.Rows(store.TableConsumptionLogs))
}

func TestReconcileLogFailureKeepsCompletedSteps(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	boom := errors.New("logs unavailable")
	f.store.FailOn(memory.OpInsert, store.TableConsumptionLogs, boom)

	result, err := f.reconciler.Reconcile(context.Background(), owner, "Gröt", []domain.DeductionSuggestion{
		{ItemID: "1", DeductAmount: 0.5},
	})
	assert.ErrorIs(t, err, domain.ErrReconcileFailed)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 1, result.ItemsUpdated)
	assert.Zero(t, result.LogsAdded)
	assert.Len(t, f.store.Rows(store.TableCookingSessions), 1)
}

func TestReconcileAfterPartialFailureUsesStoredQuantity(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	ctx := context.Background()
	deduct := []domain.DeductionSuggestion{{ItemID: "1", DeductAmount: 0.5}}

	f.store.FailOn(memory.OpInsert, store.TableConsumptionLogs, errors.New("logs unavailable"))
	first, err := f.reconciler.Reconcile(ctx, owner, "Gröt", deduct)
	require.ErrorIs(t, err, domain.ErrReconcileFailed)
	require.Equal(t, 1, first.ItemsUpdated)
	assert.InDelta(t, 7.5, first.TotalCost, 1e-9)

	f.store.FailOn(memory.OpInsert, store.TableConsumptionLogs, nil)
	second, err := f.reconciler.Reconcile(ctx, owner, "Gröt", deduct)
	require.NoError(t, err)
	assert.Equal(t, 1, second.ItemsRemoved)
	assert.Zero(t, second.ItemsUpdated)
	assert.InDelta(t, 15.0, second.TotalCost, 1e-9)
	assert.Empty(t, f.store.Rows(store.TableInventoryItems))
	assert.Len(t, f.store.Rows(store.TableConsumptionLogs), 1)
}

func TestReconcileIgnoresStaleCachedQuantity(t *testing.T) {
	f := newFixture(t, priced("1", "Mjölk", 1, domain.UnitLiter, price(15)))
	ctx := context.Background()

	cached, ok := f.item(t, "1")
	require.True(t, ok)
	require.Equal(t, 1.0, cached.Quantity)

	// another writer halves the stock behind the cache
	require.NoError(t, f.store.Update(ctx, store.TableInventoryItems,
		[]store.Filter{store.Eq("id", "1")}, map[string]any{"quantity": 0.5}))

	result, err := f.reconciler.Reconcile(ctx, owner, "Gröt", []domain.DeductionSuggestion{{ItemID: "1", DeductAmount: 0.5}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsRemoved)
	assert.InDelta(t, 15.0, result.TotalCost, 1e-9)
	_, ok = f.item(t, "1")
	assert.False(t, ok)
}

func TestReconcileAbortsOnInventoryError(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn(memory.OpSelect, store.TableInventoryItems, errors.New("timeout"))

	_, err := f.reconciler.Reconcile(context.Background(), owner, "Gröt", []domain.DeductionSuggestion{{ItemID: "1", DeductAmount: 1}})
	assert.ErrorIs(t, err, domain.ErrInventoryUnavailable)
	assert.Empty(t, f.store.Rows(store.TableCookingSessions))
}

func TestCostUsed(t *testing.T) {
	assert.True(t, CostUsed(domain.InventoryItem{Quantity: 2, PriceInfo: price(10)}, 1).Equal(decimal.NewFromInt(5)))
	assert.True(t, CostUsed(domain.InventoryItem{Quantity: 2}, 1).IsZero())
	assert.True(t, CostUsed(domain.InventoryItem{Quantity: 0, PriceInfo: price(10)}, 1).IsZero())
}
