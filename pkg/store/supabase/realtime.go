package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	heartbeatInterval = 30 * time.Second
	dialTimeout       = 10 * time.Second
	maxReconnectDelay = 30 * time.Second

	// EventResync is delivered to every handler of a channel after the
	// socket was re-established, since changes in the gap were lost.
	EventResync = "resync"
)

// reconnectDelay is the first backoff step after a dropped connection; it
// doubles up to maxReconnectDelay.
var reconnectDelay = time.Second

var errClientClosed = errors.New("realtime client closed")

type (
	// RealtimeClient speaks the Phoenix channel protocol Supabase Realtime uses.
	RealtimeClient struct {
		mu       sync.RWMutex
		writeMu  sync.Mutex
		url      string
		conn     *websocket.Conn
		channels map[string]*Channel
		handlers map[string][]EventHandler
		// done is non-nil between Connect and Disconnect, including while
		// a dropped socket is being re-dialed.
		done chan struct{}
		ref  int
	}

	EventHandler func(event *RealtimeEvent)

	RealtimeEvent struct {
		Event   string         `json:"event"`
		Topic   string         `json:"topic"`
		Payload map[string]any `json:"payload"`
		Ref     *string        `json:"ref"`
	}

	Channel struct {
		client  *RealtimeClient
		topic   string
		changes PostgresChangesConfig
		joined  bool
		joinRef string
	}

	PostgresChangesConfig struct {
		Event  string
		Schema string
		Table  string
		Filter string
	}
)

func NewRealtimeClient(supabaseURL, apiKey string) *RealtimeClient {
	wsURL := strings.TrimSuffix(supabaseURL, "/")
	switch {
	case strings.HasPrefix(wsURL, "https"):
		wsURL = "wss" + strings.TrimPrefix(wsURL, "https")
	case strings.HasPrefix(wsURL, "http"):
		wsURL = "ws" + strings.TrimPrefix(wsURL, "http")
	}
	wsURL += "/realtime/v1/websocket?apikey=" + apiKey + "&vsn=1.0.0"

	return &RealtimeClient{
		url:      wsURL,
		channels: make(map[string]*Channel),
		handlers: make(map[string][]EventHandler),
	}
}

func (r *RealtimeClient) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done != nil {
		return nil
	}

	conn, err := r.dial(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	r.conn = conn
	r.done = done

	go r.handleMessages(conn, done)
	go r.heartbeat(conn, done)
	return nil
}

func (r *RealtimeClient) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return conn, nil
}

// Connected reports whether a socket is currently open.
func (r *RealtimeClient) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conn != nil
}

// Disconnect closes the socket and stops any pending reconnect.
func (r *RealtimeClient) Disconnect() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.done == nil {
		return nil
	}
	close(r.done)
	r.done = nil
	for _, ch := range r.channels {
		ch.joined = false
	}
	if r.conn == nil {
		return nil
	}

	r.writeMu.Lock()
	err := r.conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	r.writeMu.Unlock()
	r.conn.Close()
	r.conn = nil
	if err != nil {
		return fmt.Errorf("close message: %w", err)
	}
	return nil
}

// SubscribeToPostgresChanges joins the channel for one table and filter and
// routes every row change on it to handler.
func (r *RealtimeClient) SubscribeToPostgresChanges(ctx context.Context, cfg PostgresChangesConfig, handler EventHandler) (*Channel, error) {
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if cfg.Event == "" {
		cfg.Event = "*"
	}
	if err := r.Connect(ctx); err != nil {
		return nil, err
	}

	topic := TopicFor(cfg)
	r.mu.Lock()
	ch, ok := r.channels[topic]
	if !ok {
		ch = &Channel{client: r, topic: topic, changes: cfg}
		r.channels[topic] = ch
	}
	r.handlers[topic] = append(r.handlers[topic], handler)
	r.mu.Unlock()

	if err := ch.join(); err != nil {
		return nil, err
	}
	return ch, nil
}

// TopicFor names the channel like realtime:public:inventory_items:user_id=eq.42.
func TopicFor(cfg PostgresChangesConfig) string {
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	topic := fmt.Sprintf("realtime:%s:%s", schema, cfg.Table)
	if cfg.Filter != "" {
		topic += ":" + cfg.Filter
	}
	return topic
}

func (c *Channel) Topic() string {
	return c.topic
}

func (c *Channel) join() error {
	c.client.mu.Lock()
	defer c.client.mu.Unlock()
	return c.joinLocked()
}

// joinLocked must be called with the client's mu held. Without a socket the
// channel stays unjoined and is joined once the client reconnects.
func (c *Channel) joinLocked() error {
	if c.joined || c.client.conn == nil {
		return nil
	}
	ref := c.client.nextRef()
	c.joinRef = ref

	change := map[string]any{
		"event":  c.changes.Event,
		"schema": c.changes.Schema,
		"table":  c.changes.Table,
	}
	if c.changes.Filter != "" {
		change["filter"] = c.changes.Filter
	}
	msg := map[string]any{
		"topic": c.topic,
		"event": "phx_join",
		"payload": map[string]any{
			"config": map[string]any{
				"postgres_changes": []any{change},
			},
		},
		"ref":      ref,
		"join_ref": ref,
	}
	if err := c.client.write(msg); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	c.joined = true
	return nil
}

// Unsubscribe leaves the channel and drops its handlers.
func (c *Channel) Unsubscribe() error {
	c.client.mu.Lock()
	defer c.client.mu.Unlock()

	delete(c.client.handlers, c.topic)
	delete(c.client.channels, c.topic)
	if !c.joined || c.client.conn == nil {
		return nil
	}

	msg := map[string]any{
		"topic":    c.topic,
		"event":    "phx_leave",
		"payload":  map[string]any{},
		"ref":      c.client.nextRef(),
		"join_ref": c.joinRef,
	}
	c.joined = false
	if err := c.client.write(msg); err != nil {
		return fmt.Errorf("send leave: %w", err)
	}
	return nil
}

func (r *RealtimeClient) handleMessages(conn *websocket.Conn, done chan struct{}) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				return
			default:
			}
			slog.Warn("realtime connection lost", "err", err)
			r.mu.Lock()
			dropped := r.conn == conn
			if dropped {
				r.conn = nil
				for _, ch := range r.channels {
					ch.joined = false
				}
			}
			r.mu.Unlock()
			conn.Close()
			if dropped {
				go r.reconnect(done)
			}
			return
		}

		var event RealtimeEvent
		if err := json.Unmarshal(message, &event); err != nil {
			continue
		}
		r.dispatchEvent(&event)
	}
}

func (r *RealtimeClient) reconnect(done chan struct{}) {
	delay := reconnectDelay
	for {
		select {
		case <-done:
			return
		case <-time.After(delay):
		}

		err := r.redial(done)
		if err == nil || errors.Is(err, errClientClosed) {
			return
		}
		slog.Warn("realtime reconnect failed", "err", err, "retry_in", delay)
		delay = min(delay*2, maxReconnectDelay)
	}
}

// redial opens a new socket for the session identified by done, rejoins
// every channel and tells their handlers to resync.
func (r *RealtimeClient) redial(done chan struct{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := r.dial(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.done != done {
		r.mu.Unlock()
		conn.Close()
		return errClientClosed
	}
	r.conn = conn
	go r.handleMessages(conn, done)
	go r.heartbeat(conn, done)

	var resync []EventHandler
	var topics []string
	joined := 0
	for topic, ch := range r.channels {
		if err := ch.joinLocked(); err != nil {
			slog.Warn("realtime rejoin failed", "topic", topic, "err", err)
			continue
		}
		joined++
		for _, handler := range r.handlers[topic] {
			resync = append(resync, handler)
			topics = append(topics, topic)
		}
	}
	r.mu.Unlock()

	slog.Info("realtime reconnected", "channels", joined)
	for i, handler := range resync {
		go handler(&RealtimeEvent{Event: EventResync, Topic: topics[i]})
	}
	return nil
}

func (r *RealtimeClient) dispatchEvent(event *RealtimeEvent) {
	if ChangeType(event) == "" {
		return
	}

	r.mu.RLock()
	handlers := append([]EventHandler(nil), r.handlers[event.Topic]...)
	r.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}

func (r *RealtimeClient) heartbeat(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			r.mu.Lock()
			if r.conn != conn {
				r.mu.Unlock()
				return
			}
			msg := map[string]any{
				"topic":   "phoenix",
				"event":   "heartbeat",
				"payload": map[string]any{},
				"ref":     r.nextRef(),
			}
			if err := r.write(msg); err != nil {
				slog.Warn("realtime heartbeat failed", "err", err)
			}
			r.mu.Unlock()
		}
	}
}

// nextRef must be called with r.mu held.
func (r *RealtimeClient) nextRef() string {
	r.ref++
	return strconv.Itoa(r.ref)
}

// write must be called with r.mu held so conn cannot change underneath it.
func (r *RealtimeClient) write(msg any) error {
	if r.conn == nil {
		return fmt.Errorf("realtime not connected")
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteJSON(msg)
}

// ChangeType extracts INSERT, UPDATE or DELETE from either the legacy
// per-table event or the postgres_changes envelope. Other events yield "".
func ChangeType(event *RealtimeEvent) string {
	switch event.Event {
	case "INSERT", "UPDATE", "DELETE":
		return event.Event
	case "postgres_changes":
		if data, ok := event.Payload["data"].(map[string]any); ok {
			if t, ok := data["type"].(string); ok {
				return t
			}
		}
	}
	return ""
}

// ChangeRecords returns the new and old row images carried by event.
func ChangeRecords(event *RealtimeEvent) (record, old map[string]any) {
	payload := event.Payload
	if data, ok := payload["data"].(map[string]any); ok {
		payload = data
	}
	record, _ = payload["record"].(map[string]any)
	old, _ = payload["old_record"].(map[string]any)
	return record, old
}
