package consumption

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/metrics"
	"MatSmart-Lager/pkg/store"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

const refreshTimeout = 30 * time.Second

type (
	ConsumptionRepository interface {
		List(ctx context.Context, userID string) ([]domain.ConsumptionLog, error)
		Refresh(ctx context.Context, userID string)
		Add(ctx context.Context, userID string, log domain.ConsumptionLog) error
		Update(ctx context.Context, userID, logID string, patch domain.ConsumptionLogPatch) error
		Delete(ctx context.Context, userID, logID string) error
		Watch(ctx context.Context, userID string) error
		Close()
	}

	consumptionRepository struct {
		store store.Store
		cache *store.OwnerCache[domain.ConsumptionLog]
	}
)

func NewConsumptionRepository(s store.Store) ConsumptionRepository {
	return &consumptionRepository{
		store: s,
		cache: store.NewOwnerCache[domain.ConsumptionLog](),
	}
}

func (r *consumptionRepository) List(ctx context.Context, userID string) ([]domain.ConsumptionLog, error) {
	if userID == "" {
		return []domain.ConsumptionLog{}, domain.ErrMissingOwner
	}
	if !r.cache.Fresh(userID) {
		r.Refresh(ctx, userID)
	}
	logs, _, err := r.cache.Get(userID)
	return logs, err
}

func (r *consumptionRepository) Refresh(ctx context.Context, userID string) {
	var rows []entities.ConsumptionLog
	err := r.store.Select(ctx, store.TableConsumptionLogs,
		store.Where(store.Eq("user_id", userID)).OrderBy(store.Desc("logged_at")),
		&rows,
	)
	metrics.RecordRefresh(store.TableConsumptionLogs, err)
	if err != nil {
		slog.Error("consumption log refresh failed", "user_id", userID, "err", err)
		r.cache.Set(userID, nil, fmt.Errorf("fetch consumption logs: %w", err))
		return
	}

	logs := make([]domain.ConsumptionLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, mapRowToLog(row))
	}
	// logged_at may be null, in which case created_at stands in for the date.
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].Date.After(logs[j].Date) })
	r.cache.Set(userID, logs, nil)
}

func (r *consumptionRepository) Add(ctx context.Context, userID string, log domain.ConsumptionLog) error {
	row := entities.ConsumptionLog{
		UserID:       userID,
		LoggedAt:     &log.Date,
		CreatedAt:    time.Now(),
		ItemName:     log.ItemName,
		Cost:         &log.Cost,
		QuantityUsed: log.QuantityUsed,
		Unit:         log.Unit,
		Reason:       log.Reason,
		DishName:     optional(log.DishName),
		Notes:        optional(log.Notes),
	}
	if err := r.store.Insert(ctx, store.TableConsumptionLogs, row, nil); err != nil {
		err = fmt.Errorf("add consumption log: %w", err)
		r.cache.SetError(userID, err)
		return err
	}
	r.Refresh(ctx, userID)
	return nil
}

func (r *consumptionRepository) Update(ctx context.Context, userID, logID string, patch domain.ConsumptionLogPatch) error {
	if patch.IsEmpty() {
		return domain.ErrEmptyLogPatch
	}
	if err := r.store.Update(ctx, store.TableConsumptionLogs, ownerScope(userID, logID), patchColumns(patch)); err != nil {
		err = fmt.Errorf("update consumption log %s: %w", logID, err)
		r.cache.SetError(userID, err)
		return err
	}
	r.Refresh(ctx, userID)
	return nil
}

func (r *consumptionRepository) Delete(ctx context.Context, userID, logID string) error {
	err := r.store.Delete(ctx, store.TableConsumptionLogs, ownerScope(userID, logID))
	if errors.Is(err, store.ErrNoRows) {
		return domain.ErrLogNotFound
	}
	if err != nil {
		err = fmt.Errorf("delete consumption log %s: %w", logID, err)
		r.cache.SetError(userID, err)
		return err
	}
	r.Refresh(ctx, userID)
	return nil
}

func (r *consumptionRepository) Watch(ctx context.Context, userID string) error {
	if r.cache.Watching(userID) {
		return nil
	}
	sub, err := r.store.Subscribe(ctx, store.TableConsumptionLogs, store.Eq("user_id", userID), func(change store.Change) {
		slog.Debug("consumption logs changed", "user_id", userID, "type", change.Type)
		refreshCtx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		r.Refresh(refreshCtx, userID)
	})
	if err != nil {
		return fmt.Errorf("watch consumption logs: %w", err)
	}
	if !r.cache.Watch(userID, sub) {
		_ = sub.Unsubscribe()
	}
	return nil
}

func (r *consumptionRepository) Close() {
	r.cache.Close()
}

// patchColumns maps the set fields of patch to their column names.
func patchColumns(patch domain.ConsumptionLogPatch) map[string]any {
	cols := make(map[string]any)
	if patch.Date != nil {
		cols["logged_at"] = *patch.Date
	}
	if patch.ItemName != nil {
		cols["item_name"] = *patch.ItemName
	}
	if patch.Cost != nil {
		cols["cost"] = *patch.Cost
	}
	if patch.QuantityUsed != nil {
		cols["quantity_used"] = *patch.QuantityUsed
	}
	if patch.Unit != nil {
		cols["unit"] = *patch.Unit
	}
	if patch.Reason != nil {
		cols["reason"] = *patch.Reason
	}
	if patch.DishName != nil {
		cols["dish_name"] = *patch.DishName
	}
	if patch.Notes != nil {
		cols["notes"] = *patch.Notes
	}
	return cols
}

func ownerScope(userID, id string) []store.Filter {
	return []store.Filter{store.Eq("id", id), store.Eq("user_id", userID)}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapRowToLog(row entities.ConsumptionLog) domain.ConsumptionLog {
	log := domain.ConsumptionLog{
		ID:           row.ID,
		Date:         row.CreatedAt,
		ItemName:     row.ItemName,
		QuantityUsed: row.QuantityUsed,
		Unit:         row.Unit,
		Reason:       row.Reason,
	}
	if row.LoggedAt != nil {
		log.Date = *row.LoggedAt
	}
	if row.Cost != nil {
		log.Cost = *row.Cost
	}
	if row.DishName != nil {
		log.DishName = *row.DishName
	}
	if row.Notes != nil {
		log.Notes = *row.Notes
	}
	return log
}
