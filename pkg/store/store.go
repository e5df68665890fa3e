// Package store defines the record store the repositories persist through.
//
// Every call names its table and carries explicit owner filters; drivers never
// infer the owner from ambient state.
package store

import (
	"context"
	"errors"
	"fmt"
)

const (
	TableInventoryItems      = "inventory_items"
	TableConsumptionLogs     = "consumption_logs"
	TableCookingSessions     = "cooking_sessions"
	TableCookingSessionItems = "cooking_session_items"
	TableMealPlan            = "meal_plan"
)

const (
	OpEq  = "eq"
	OpGte = "gte"
	OpLte = "lte"
)

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
	// ChangeResync carries no rows; changes may have been missed and
	// subscribers should reload.
	ChangeResync = "RESYNC"
)

var (
	ErrUnknownTable    = errors.New("unknown table")
	ErrMissingFilter   = errors.New("refusing to write without a filter")
	ErrNotSubscribable = errors.New("store does not support change notifications")
	ErrNoRows          = errors.New("no rows matched")
)

type (
	Store interface {
		// Select decodes the matching rows into dest, a pointer to a slice.
		Select(ctx context.Context, table string, q Query, dest any) error
		// Insert writes row and, when dest is non-nil, decodes the stored
		// representation (with generated columns) into dest as a one-element slice.
		Insert(ctx context.Context, table string, row any, dest any) error
		Update(ctx context.Context, table string, filters []Filter, patch map[string]any) error
		// Delete removes the matching rows and returns ErrNoRows when none matched.
		Delete(ctx context.Context, table string, filters []Filter) error
		Subscribe(ctx context.Context, table string, filter Filter, fn func(Change)) (Subscription, error)
	}

	Subscription interface {
		Unsubscribe() error
	}

	Filter struct {
		Column string
		Op     string
		Value  any
	}

	Order struct {
		Column    string
		Ascending bool
	}

	Query struct {
		Filters []Filter
		Orders  []Order
	}

	Change struct {
		Type      string
		Table     string
		Record    map[string]any
		OldRecord map[string]any
	}
)

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func Gte(column string, value any) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

func Lte(column string, value any) Filter {
	return Filter{Column: column, Op: OpLte, Value: value}
}

func Desc(column string) Order {
	return Order{Column: column}
}

func Asc(column string) Order {
	return Order{Column: column, Ascending: true}
}

// Where builds a query from filters; chain OrderBy to sort.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

func (q Query) OrderBy(orders ...Order) Query {
	q.Orders = append(q.Orders, orders...)
	return q
}

// String renders the filter in PostgREST syntax, e.g. user_id=eq.42.
func (f Filter) String() string {
	return fmt.Sprintf("%s=%s.%v", f.Column, f.Op, f.Value)
}

// Matches reports whether a decoded row satisfies every filter. Values are
// compared by their printed form so string ids match regardless of how the
// driver decoded them.
func Matches(row map[string]any, filters []Filter) bool {
	for _, f := range filters {
		got := fmt.Sprint(row[f.Column])
		want := fmt.Sprint(f.Value)
		switch f.Op {
		case OpEq:
			if got != want {
				return false
			}
		case OpGte:
			if got < want {
				return false
			}
		case OpLte:
			if got > want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ValidateTable guards drivers against typos in table names.
func ValidateTable(table string) error {
	switch table {
	case TableInventoryItems, TableConsumptionLogs, TableCookingSessions, TableCookingSessionItems, TableMealPlan:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
}
