package store

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	row := map[string]any{"user_id": "u1", "date": "2024-05-03", "quantity": 2.0}

	assert.True(t, Matches(row, nil))
	assert.True(t, Matches(row, []Filter{Eq("user_id", "u1"), Gte("date", "2024-05-01"), Lte("date", "2024-05-03")}))
	assert.False(t, Matches(row, []Filter{Eq("user_id", "u2")}))
	assert.False(t, Matches(row, []Filter{Gte("date", "2024-05-04")}))
	assert.False(t, Matches(row, []Filter{{Column: "user_id", Op: "like", Value: "u1"}}))
}

func TestFilterString(t *testing.T) {
	assert.Equal(t, "user_id=eq.42", Eq("user_id", 42).String())
	assert.Equal(t, "date=gte.2024-05-01", Gte("date", "2024-05-01").String())
}

func TestWhereOrderBy(t *testing.T) {
	q := Where(Eq("user_id", "u1")).OrderBy(Desc("created_at"), Asc("name"))
	require.Len(t, q.Orders, 2)
	assert.False(t, q.Orders[0].Ascending)
	assert.True(t, q.Orders[1].Ascending)
	assert.Equal(t, []Filter{Eq("user_id", "u1")}, q.Filters)
}

func TestValidateTable(t *testing.T) {
	assert.NoError(t, ValidateTable(TableMealPlan))
	assert.ErrorIs(t, ValidateTable("inventory"), ErrUnknownTable)
}

type fakeSubscription struct {
	calls atomic.Int32
}

func (s *fakeSubscription) Unsubscribe() error {
	s.calls.Add(1)
	return nil
}

func TestOwnerCache(t *testing.T) {
	c := NewOwnerCache[string]()

	items, loaded, err := c.Get("u1")
	assert.Empty(t, items)
	assert.False(t, loaded)
	assert.NoError(t, err)

	c.Set("u1", []string{"a", "b"}, nil)
	items, loaded, err = c.Get("u1")
	assert.Equal(t, []string{"a", "b"}, items)
	assert.True(t, loaded)
	assert.NoError(t, err)

	items[0] = "mutated"
	again, _, _ := c.Get("u1")
	assert.Equal(t, "a", again[0])

	writeErr := errors.New("write failed")
	c.SetError("u1", writeErr)
	items, _, err = c.Get("u1")
	assert.Equal(t, []string{"a", "b"}, items)
	assert.ErrorIs(t, err, writeErr)

	c.Set("u1", []string{"c"}, writeErr)
	items, _, err = c.Get("u1")
	assert.Empty(t, items)
	assert.ErrorIs(t, err, writeErr)

	other, loaded, _ := c.Get("u2")
	assert.Empty(t, other)
	assert.False(t, loaded)
}

func TestOwnerCacheFresh(t *testing.T) {
	c := NewOwnerCache[string]()
	assert.False(t, c.Fresh("u1"))

	c.Set("u1", nil, errors.New("timeout"))
	assert.False(t, c.Fresh("u1"))

	c.Set("u1", []string{"a"}, nil)
	assert.True(t, c.Fresh("u1"))

	c.SetError("u1", errors.New("write failed"))
	assert.False(t, c.Fresh("u1"))

	c.Set("u1", []string{"a"}, nil)
	assert.True(t, c.Fresh("u1"))
}

func TestOwnerCacheWatch(t *testing.T) {
	c := NewOwnerCache[int]()
	first := &fakeSubscription{}
	second := &fakeSubscription{}

	assert.False(t, c.Watching("u1"))
	assert.True(t, c.Watch("u1", first))
	assert.False(t, c.Watch("u1", second))
	assert.True(t, c.Watching("u1"))

	c.Close()
	assert.Equal(t, int32(1), first.calls.Load())
	assert.Zero(t, second.calls.Load())
	assert.False(t, c.Watching("u1"))
}

func TestHubPublish(t *testing.T) {
	h := NewHub()
	var mine, all atomic.Int32

	h.Subscribe(TableInventoryItems, Eq("user_id", "u1"), func(Change) { mine.Add(1) })
	sub := h.Subscribe(TableInventoryItems, Filter{}, func(Change) { all.Add(1) })
	h.Subscribe(TableMealPlan, Filter{}, func(Change) { t.Error("wrong table") })

	h.Publish(Change{Type: ChangeInsert, Table: TableInventoryItems, Record: map[string]any{"user_id": "u1"}})
	h.Publish(Change{Type: ChangeInsert, Table: TableInventoryItems, Record: map[string]any{"user_id": "u2"}})
	h.Publish(Change{Type: ChangeDelete, Table: TableInventoryItems, OldRecord: map[string]any{"user_id": "u1"}})

	assert.Eventually(t, func() bool { return mine.Load() == 2 && all.Load() == 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sub.Unsubscribe())
	h.Publish(Change{Type: ChangeUpdate, Table: TableInventoryItems, Record: map[string]any{"user_id": "u1"}})
	assert.Eventually(t, func() bool { return mine.Load() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), all.Load())
}
