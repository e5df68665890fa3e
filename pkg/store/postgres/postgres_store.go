// Package postgres implements the record store directly on Postgres with gorm.
// Postgres has no change feed here, so writes are published through a store.Hub.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"MatSmart-Lager/entities"
	"MatSmart-Lager/pkg/store"

	"gorm.io/gorm"
)

type Store struct {
	db  *gorm.DB
	hub *store.Hub
}

var _ store.Store = (*Store)(nil)

var models = map[string]any{
	store.TableInventoryItems:      &entities.InventoryItem{},
	store.TableConsumptionLogs:     &entities.ConsumptionLog{},
	store.TableCookingSessions:     &entities.CookingSession{},
	store.TableCookingSessionItems: &entities.CookingSessionItem{},
	store.TableMealPlan:            &entities.MealPlan{},
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, hub: store.NewHub()}
}

// Models lists the row types for AutoMigrate.
func Models() []any {
	return []any{
		&entities.InventoryItem{},
		&entities.ConsumptionLog{},
		&entities.CookingSession{},
		&entities.CookingSessionItem{},
		&entities.MealPlan{},
	}
}

func (s *Store) Select(ctx context.Context, table string, q store.Query, dest any) error {
	model, err := newModel(table)
	if err != nil {
		return err
	}
	slice := reflect.New(reflect.SliceOf(reflect.TypeOf(model))).Interface()

	tx := s.db.WithContext(ctx).Model(model)
	tx, err = applyFilters(tx, q.Filters)
	if err != nil {
		return err
	}
	for _, o := range q.Orders {
		dir := "desc"
		if o.Ascending {
			dir = "asc"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", o.Column, dir))
	}
	if err := tx.Find(slice).Error; err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	return reencode(slice, dest)
}

func (s *Store) Insert(ctx context.Context, table string, row any, dest any) error {
	model, err := newModel(table)
	if err != nil {
		return err
	}
	if err := reencode(row, model); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	record, err := toRow(model)
	if err != nil {
		return err
	}
	s.hub.Publish(store.Change{Type: store.ChangeInsert, Table: table, Record: record})
	if dest == nil {
		return nil
	}
	return reencode([]any{model}, dest)
}

func (s *Store) Update(ctx context.Context, table string, filters []store.Filter, patch map[string]any) error {
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}
	model, err := newModel(table)
	if err != nil {
		return err
	}

	tx, err := applyFilters(s.db.WithContext(ctx).Model(model), filters)
	if err != nil {
		return err
	}
	if err := tx.Updates(patch).Error; err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}

	record := make(map[string]any, len(patch)+len(filters))
	for k, v := range patch {
		record[k] = v
	}
	for _, f := range filters {
		if f.Op == store.OpEq {
			record[f.Column] = f.Value
		}
	}
	s.hub.Publish(store.Change{Type: store.ChangeUpdate, Table: table, Record: record})
	return nil
}

func (s *Store) Delete(ctx context.Context, table string, filters []store.Filter) error {
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}
	model, err := newModel(table)
	if err != nil {
		return err
	}

	tx, err := applyFilters(s.db.WithContext(ctx), filters)
	if err != nil {
		return err
	}
	res := tx.Delete(model)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", table, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNoRows
	}

	old := make(map[string]any, len(filters))
	for _, f := range filters {
		if f.Op == store.OpEq {
			old[f.Column] = f.Value
		}
	}
	s.hub.Publish(store.Change{Type: store.ChangeDelete, Table: table, OldRecord: old})
	return nil
}

func (s *Store) Subscribe(ctx context.Context, table string, filter store.Filter, fn func(store.Change)) (store.Subscription, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(table, filter, fn), nil
}

func newModel(table string) (any, error) {
	model, ok := models[table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownTable, table)
	}
	return reflect.New(reflect.TypeOf(model).Elem()).Interface(), nil
}

func applyFilters(tx *gorm.DB, filters []store.Filter) (*gorm.DB, error) {
	for _, f := range filters {
		var op string
		switch f.Op {
		case store.OpEq:
			op = "="
		case store.OpGte:
			op = ">="
		case store.OpLte:
			op = "<="
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", f.Column, op), f.Value)
	}
	return tx, nil
}

func toRow(v any) (map[string]any, error) {
	var row map[string]any
	if err := reencode(v, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func reencode(src, dest any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
