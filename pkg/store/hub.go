package store

import (
	"log/slog"
	"sync"
)

// Hub fans change events out to in-process subscribers. Drivers without a
// native change feed publish to it after every successful write.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]hubSubscriber
}

type hubSubscriber struct {
	table  string
	filter Filter
	fn     func(Change)
}

type hubSubscription struct {
	hub *Hub
	id  int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]hubSubscriber)}
}

func (h *Hub) Subscribe(table string, filter Filter, fn func(Change)) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	h.subs[h.nextID] = hubSubscriber{table: table, filter: filter, fn: fn}
	return &hubSubscription{hub: h, id: h.nextID}
}

// Publish delivers the change asynchronously to every subscriber whose filter
// matches the new record, or the old record for deletes.
func (h *Hub) Publish(change Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	row := change.Record
	if change.Type == ChangeDelete && change.OldRecord != nil {
		row = change.OldRecord
	}
	for _, sub := range h.subs {
		if sub.table != change.Table {
			continue
		}
		if sub.filter.Column != "" && !Matches(row, []Filter{sub.filter}) {
			continue
		}
		go sub.fn(change)
	}
	slog.Debug("store change published", "table", change.Table, "type", change.Type)
}

func (s *hubSubscription) Unsubscribe() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	delete(s.hub.subs, s.id)
	return nil
}
