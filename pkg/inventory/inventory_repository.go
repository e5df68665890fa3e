package inventory

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/metrics"
	"MatSmart-Lager/pkg/store"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const refreshTimeout = 30 * time.Second

type (
	InventoryRepository interface {
		// List returns the owner's cached items, newest first. It loads them on
		// first use and again whenever the last load failed. A failed load
		// yields an empty list and the error.
		List(ctx context.Context, userID string) ([]domain.InventoryItem, error)
		// Load always re-fetches before returning, for callers that write
		// based on what they read.
		Load(ctx context.Context, userID string) ([]domain.InventoryItem, error)
		Refresh(ctx context.Context, userID string)
		Insert(ctx context.Context, userID string, items []entities.InventoryItem) error
		UpdateQuantity(ctx context.Context, userID, itemID string, quantity float64, updatedAt time.Time) error
		Remove(ctx context.Context, userID, itemID string) error
		Watch(ctx context.Context, userID string) error
		Close()
	}

	inventoryRepository struct {
		store store.Store
		cache *store.OwnerCache[domain.InventoryItem]
	}
)

func NewInventoryRepository(s store.Store) InventoryRepository {
	return &inventoryRepository{
		store: s,
		cache: store.NewOwnerCache[domain.InventoryItem](),
	}
}

func (r *inventoryRepository) List(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	if userID == "" {
		return []domain.InventoryItem{}, domain.ErrMissingOwner
	}
	if !r.cache.Fresh(userID) {
		r.Refresh(ctx, userID)
	}
	items, _, err := r.cache.Get(userID)
	return items, err
}

func (r *inventoryRepository) Load(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	if userID == "" {
		return []domain.InventoryItem{}, domain.ErrMissingOwner
	}
	r.Refresh(ctx, userID)
	items, _, err := r.cache.Get(userID)
	return items, err
}

func (r *inventoryRepository) Refresh(ctx context.Context, userID string) {
	var rows []entities.InventoryItem
	err := r.store.Select(ctx, store.TableInventoryItems,
		store.Where(store.Eq("user_id", userID)).OrderBy(store.Desc("added_at")),
		&rows,
	)
	metrics.RecordRefresh(store.TableInventoryItems, err)
	if err != nil {
		slog.Error("inventory refresh failed", "user_id", userID, "err", err)
		r.cache.Set(userID, nil, fmt.Errorf("fetch inventory: %w", err))
		return
	}

	items := make([]domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapRowToInventory(row))
	}
	r.cache.Set(userID, items, nil)
}

func (r *inventoryRepository) Insert(ctx context.Context, userID string, items []entities.InventoryItem) error {
	for i := range items {
		items[i].UserID = userID
		if err := r.store.Insert(ctx, store.TableInventoryItems, items[i], nil); err != nil {
			return fmt.Errorf("insert inventory item %q: %w", items[i].Name, err)
		}
	}
	return nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity float64, updatedAt time.Time) error {
	err := r.store.Update(ctx, store.TableInventoryItems, ownerScope(userID, itemID), map[string]any{
		"quantity":   quantity,
		"updated_at": updatedAt,
	})
	if err != nil {
		return fmt.Errorf("update inventory item %s: %w", itemID, err)
	}
	return nil
}

func (r *inventoryRepository) Remove(ctx context.Context, userID, itemID string) error {
	err := r.store.Delete(ctx, store.TableInventoryItems, ownerScope(userID, itemID))
	if errors.Is(err, store.ErrNoRows) {
		return domain.ErrInventoryItemNotFound
	}
	if err != nil {
		return fmt.Errorf("remove inventory item %s: %w", itemID, err)
	}
	return nil
}

func (r *inventoryRepository) Watch(ctx context.Context, userID string) error {
	if r.cache.Watching(userID) {
		return nil
	}
	sub, err := r.store.Subscribe(ctx, store.TableInventoryItems, store.Eq("user_id", userID), func(change store.Change) {
		slog.Debug("inventory changed", "user_id", userID, "type", change.Type)
		refreshCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		r.Refresh(refreshCtx, userID)
	})
	if err != nil {
		return fmt.Errorf("watch inventory: %w", err)
	}
	if !r.cache.Watch(userID, sub) {
		_ = sub.Unsubscribe()
	}
	return nil
}

func (r *inventoryRepository) Close() {
	r.cache.Close()
}

func ownerScope(userID, id string) []store.Filter {
	return []store.Filter{store.Eq("id", id), store.Eq("user_id", userID)}
}

func mapRowToInventory(row entities.InventoryItem) domain.InventoryItem {
	item := domain.InventoryItem{
		ID:        row.ID,
		Name:      row.Name,
		Quantity:  row.Quantity,
		Unit:      row.Unit,
		Category:  domain.CategoryOther,
		PriceInfo: row.PriceInfo,
		AddedDate: row.AddedAt,
		Source:    row.Source,
	}
	if row.Category != nil {
		item.Category = *row.Category
	}
	if row.ExpiryDate != nil {
		item.ExpiryDate = *row.ExpiryDate
	}
	return item
}
