package inventory

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/store"
	"MatSmart-Lager/pkg/store/memory"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seedItem(t *testing.T, s *memory.Store, userID, name string, qty float64, addedAt time.Time) string {
	t.Helper()
	var out []entities.InventoryItem
	require.NoError(t, s.Insert(context.Background(), store.TableInventoryItems, entities.InventoryItem{
		UserID:   userID,
		Name:     name,
		Quantity: qty,
		Unit:     domain.UnitPiece,
		AddedAt:  addedAt,
		Source:   domain.SourceManual,
	}, &out))
	require.Len(t, out, 1)
	return out[0].ID
}

func TestInventoryRepositoryListNewestFirst(t *testing.T) {
	s := memory.New()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	seedItem(t, s, "u1", "Mjölk", 1, base)
	seedItem(t, s, "u1", "Ägg", 12, base.Add(time.Hour))
	seedItem(t, s, "u2", "Smör", 1, base)

	repo := NewInventoryRepository(s)
	items, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ägg", items[0].Name)
	assert.Equal(t, "Mjölk", items[1].Name)
	assert.Equal(t, domain.CategoryOther, items[0].Category)
	assert.Empty(t, items[0].ExpiryDate)
	assert.Nil(t, items[0].PriceInfo)
}

func TestInventoryRepositoryListRequiresOwner(t *testing.T) {
	repo := NewInventoryRepository(memory.New())
	items, err := repo.List(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingOwner)
	assert.Empty(t, items)
}

func TestInventoryRepositoryRefreshErrorEmptiesCache(t *testing.T) {
	s := memory.New()
	seedItem(t, s, "u1", "Mjölk", 1, time.Now())

	repo := NewInventoryRepository(s)
	items, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	boom := errors.New("connection reset")
	s.FailOn(memory.OpSelect, store.TableInventoryItems, boom)
	repo.Refresh(context.Background(), "u1")

	items, err = repo.List(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, items)

	s.FailOn(memory.OpSelect, store.TableInventoryItems, nil)
	items, err = repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestInventoryRepositoryListRetriesAfterFailedLoad(t *testing.T) {
	s := memory.New()
	seedItem(t, s, "u1", "Mjölk", 1, time.Now())
	repo := NewInventoryRepository(s)

	boom := errors.New("connection reset")
	s.ErrorOnNextCall = boom
	_, err := repo.List(context.Background(), "u1")
	require.ErrorIs(t, err, boom)

	items, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestInventoryRepositoryLoadBypassesCache(t *testing.T) {
	s := memory.New()
	seedItem(t, s, "u1", "Mjölk", 1, time.Now())
	repo := NewInventoryRepository(s)
	ctx := context.Background()

	items, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	seedItem(t, s, "u1", "Ägg", 6, time.Now())
	items, err = repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = repo.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = repo.Load(ctx, "")
	assert.ErrorIs(t, err, domain.ErrMissingOwner)
}

func TestInventoryRepositoryUpdateAndRemoveAreOwnerScoped(t *testing.T) {
	s := memory.New()
	id := seedItem(t, s, "u1", "Mjölk", 2, time.Now())
	repo := NewInventoryRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.UpdateQuantity(ctx, "u2", id, 0.5, time.Now()))
	assert.ErrorIs(t, repo.Remove(ctx, "u2", id), domain.ErrInventoryItemNotFound)
	rows := s.Rows(store.TableInventoryItems)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0]["quantity"])

	require.NoError(t, repo.UpdateQuantity(ctx, "u1", id, 0.5, time.Now()))
	rows = s.Rows(store.TableInventoryItems)
	assert.Equal(t, 0.5, rows[0]["quantity"])
	assert.NotNil(t, rows[0]["updated_at"])

	require.NoError(t, repo.Remove(ctx, "u1", id))
	assert.Empty(t, s.Rows(store.TableInventoryItems))
}

func TestInventoryRepositoryRemoveReturnsStoreError(t *testing.T) {
	s := memory.New()
	id := seedItem(t, s, "u1", "Mjölk", 2, time.Now())
	boom := errors.New("permission denied")
	s.FailOn(memory.OpDelete, store.TableInventoryItems, boom)

	err := NewInventoryRepository(s).Remove(context.Background(), "u1", id)
	assert.ErrorIs(t, err, boom)
}

func TestInventoryRepositoryWatchRefreshesOnChange(t *testing.T) {
	s := memory.New()
	repo := NewInventoryRepository(s)
	defer repo.Close()
	ctx := context.Background()

	items, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)
	require.NoError(t, repo.Watch(ctx, "u1"))
	require.NoError(t, repo.Watch(ctx, "u1"))

	seedItem(t, s, "u1", "Mjölk", 1, time.Now())

	assert.Eventually(t, func() bool {
		items, err := repo.List(ctx, "u1")
		return err == nil && len(items) == 1
	}, time.Second, 10*time.Millisecond)
}
