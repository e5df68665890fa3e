package supabase

import (
	"context"
	"fmt"
	"sync"

	"MatSmart-Lager/pkg/store"
)

type (
	Store struct {
		client   *Client
		realtime *RealtimeClient
	}

	subscription struct {
		once    sync.Once
		channel *Channel
	}
)

var _ store.Store = (*Store)(nil)

func NewStore(cfg Config) (*Store, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		client:   client,
		realtime: NewRealtimeClient(cfg.URL, cfg.APIKey),
	}, nil
}

func (s *Store) Select(ctx context.Context, table string, q store.Query, dest any) error {
	if err := store.ValidateTable(table); err != nil {
		return err
	}
	resp, err := s.client.From(table).Select("*").Filter(q.Filters...).Order(q.Orders...).Execute(ctx)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	if err := resp.Error(); err != nil {
		return err
	}
	if err := resp.JSON(dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, table string, row any, dest any) error {
	if err := store.ValidateTable(table); err != nil {
		return err
	}
	resp, err := s.client.From(table).ExecuteInsert(ctx, row)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	if err := resp.Error(); err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := resp.JSON(dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, table string, filters []store.Filter, patch map[string]any) error {
	if err := store.ValidateTable(table); err != nil {
		return err
	}
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}
	resp, err := s.client.From(table).Filter(filters...).ExecuteUpdate(ctx, patch)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return resp.Error()
}

func (s *Store) Delete(ctx context.Context, table string, filters []store.Filter) error {
	if err := store.ValidateTable(table); err != nil {
		return err
	}
	if len(filters) == 0 {
		return store.ErrMissingFilter
	}
	resp, err := s.client.From(table).Filter(filters...).ExecuteDelete(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if err := resp.Error(); err != nil {
		return err
	}
	var deleted []map[string]any
	if err := resp.JSON(&deleted); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	if len(deleted) == 0 {
		return store.ErrNoRows
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, table string, filter store.Filter, fn func(store.Change)) (store.Subscription, error) {
	if err := store.ValidateTable(table); err != nil {
		return nil, err
	}
	cfg := PostgresChangesConfig{Table: table}
	if filter.Column != "" {
		cfg.Filter = filter.String()
	}
	ch, err := s.realtime.SubscribeToPostgresChanges(ctx, cfg, func(event *RealtimeEvent) {
		if event.Event == EventResync {
			fn(store.Change{Type: store.ChangeResync, Table: table})
			return
		}
		record, old := ChangeRecords(event)
		fn(store.Change{Type: ChangeType(event), Table: table, Record: record, OldRecord: old})
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", table, err)
	}
	return &subscription{channel: ch}, nil
}

func (s *Store) Close() error {
	return s.realtime.Disconnect()
}

func (s *subscription) Unsubscribe() error {
	var err error
	s.once.Do(func() {
		err = s.channel.Unsubscribe()
	})
	return err
}
