// Package memory is an in-process record store used for development runs and
// tests. Rows are kept as decoded JSON objects so they behave like the rows a
// PostgREST backend returns.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"MatSmart-Lager/pkg/store"

	"github.com/google/uuid"
)

const (
	OpSelect = "select"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

type (
	Store struct {
		mu     sync.RWMutex
		tables map[string][]map[string]any
		calls  []Call
		fails  map[string]error
		hub    *store.Hub

		// ErrorOnNextCall is returned (and cleared) by the next store call.
		ErrorOnNextCall error
	}

	Call struct {
		Op    string
		Table string
	}
)

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		tables: make(map[string][]map[string]any),
		fails:  make(map[string]error),
		hub:    store.NewHub(),
	}
}

// FailOn makes every op against table return err until cleared with a nil err.
func (s *Store) FailOn(op, table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := op + ":" + table
	if err == nil {
		delete(s.fails, key)
		return
	}
	s.fails[key] = err
}

// Calls returns every call made so far, in order.
func (s *Store) Calls() []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Rows returns a copy of the raw rows of table.
func (s *Store) Rows(table string) []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, cloneRow(row))
	}
	return out
}

func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables = make(map[string][]map[string]any)
	s.calls = nil
	s.fails = make(map[string]error)
	s.ErrorOnNextCall = nil
}

func (s *Store) Select(ctx context.Context, table string, q store.Query, dest any) error {
	s.mu.Lock()
	if err := s.begin(ctx, OpSelect, table); err != nil {
		s.mu.Unlock()
		return err
	}
	var rows []map[string]any
	for _, row := range s.tables[table] {
		if store.Matches(row, q.Filters) {
			rows = append(rows, cloneRow(row))
		}
	}
	s.mu.Unlock()

	sortRows(rows, q.Orders)
	if rows == nil {
		rows = []map[string]any{}
	}
	return reencode(rows, dest)
}

func (s *Store) Insert(ctx context.Context, table string, row any, dest any) error {
	record, err := toRow(row)
	if err != nil {
		return err
	}
	if id, _ := record["id"].(string); id == "" {
		record["id"] = uuid.NewString()
	}

	s.mu.Lock()
	if err := s.begin(ctx, OpInsert, table); err != nil {
		s.mu.Unlock()
		return err
	}
	s.tables[table] = append(s.tables[table], record)
	s.mu.Unlock()

	s.hub.Publish(store.Change{Type: store.ChangeInsert, Table: table, Record: cloneRow(record)})
	if dest == nil {
		return nil
	}
	return reencode([]map[string]any{record}, dest)
}

func (s *Store) Update(ctx context.Context, table string, filters []store.Filter, patch map[string]any) error {
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}
	values, err := toRow(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.begin(ctx, OpUpdate, table); err != nil {
		s.mu.Unlock()
		return err
	}
	var changes []store.Change
	for _, row := range s.tables[table] {
		if !store.Matches(row, filters) {
			continue
		}
		old := cloneRow(row)
		for k, v := range values {
			row[k] = v
		}
		changes = append(changes, store.Change{Type: store.ChangeUpdate, Table: table, Record: cloneRow(row), OldRecord: old})
	}
	s.mu.Unlock()

	for _, c := range changes {
		s.hub.Publish(c)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, table string, filters []store.Filter) error {
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}

	s.mu.Lock()
	if err := s.begin(ctx, OpDelete, table); err != nil {
		s.mu.Unlock()
		return err
	}
	var (
		kept    []map[string]any
		changes []store.Change
	)
	for _, row := range s.tables[table] {
		if store.Matches(row, filters) {
			changes = append(changes, store.Change{Type: store.ChangeDelete, Table: table, OldRecord: cloneRow(row)})
			continue
		}
		kept = append(kept, row)
	}
	s.tables[table] = kept
	s.mu.Unlock()

	if len(changes) == 0 {
		return store.ErrNoRows
	}
	for _, c := range changes {
		s.hub.Publish(c)
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, table string, filter store.Filter, fn func(store.Change)) (store.Subscription, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(table, filter, fn), nil
}

// begin records the call and applies injected failures. Callers hold s.mu.
func (s *Store) begin(ctx context.Context, op, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.ValidateTable(table); err != nil {
		return err
	}
	s.calls = append(s.calls, Call{Op: op, Table: table})
	if s.ErrorOnNextCall != nil {
		err := s.ErrorOnNextCall
		s.ErrorOnNextCall = nil
		return err
	}
	if err, ok := s.fails[op+":"+table]; ok {
		return err
	}
	return nil
}

func toRow(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var row map[string]any
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

func reencode(rows []map[string]any, dest any) error {
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func sortRows(rows []map[string]any, orders []store.Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

// compare orders numbers numerically, timestamps chronologically and
// everything else by string. Nulls sort first.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	ta, errA := time.Parse(time.RFC3339Nano, sa)
	tb, errB := time.Parse(time.RFC3339Nano, sb)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
