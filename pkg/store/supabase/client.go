// Package supabase implements the record store on top of a hosted Supabase
// project: PostgREST for row access and Realtime for change notifications.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MatSmart-Lager/pkg/store"
)

type (
	Client struct {
		baseURL    string
		apiKey     string
		httpClient *http.Client
	}

	Config struct {
		URL        string
		APIKey     string
		HTTPClient *http.Client
	}

	Response struct {
		StatusCode int
		Body       []byte
		Headers    http.Header
	}

	// QueryBuilder builds PostgREST requests against one table.
	QueryBuilder struct {
		client  *Client
		table   string
		columns string
		filters []store.Filter
		orders  []store.Order
	}
)

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table}
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.columns = columns
	return q
}

func (q *QueryBuilder) Filter(filters ...store.Filter) *QueryBuilder {
	q.filters = append(q.filters, filters...)
	return q
}

func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder {
	return q.Filter(store.Eq(column, value))
}

func (q *QueryBuilder) Order(orders ...store.Order) *QueryBuilder {
	q.orders = append(q.orders, orders...)
	return q
}

func (q *QueryBuilder) Execute(ctx context.Context) (*Response, error) {
	params := q.params()
	if q.columns != "" {
		params.Set("select", q.columns)
	}
	if len(q.orders) > 0 {
		parts := make([]string, 0, len(q.orders))
		for _, o := range q.orders {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(parts, ","))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url(params), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)
	return q.client.do(req)
}

func (q *QueryBuilder) ExecuteInsert(ctx context.Context, data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url(nil), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	return q.client.do(req)
}

func (q *QueryBuilder) ExecuteUpdate(ctx context.Context, data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal data: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, q.url(q.params()), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")
	return q.client.do(req)
}

func (q *QueryBuilder) ExecuteDelete(ctx context.Context) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, q.url(q.params()), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q.client.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")
	return q.client.do(req)
}

func (q *QueryBuilder) params() url.Values {
	params := url.Values{}
	for _, f := range q.filters {
		params.Add(f.Column, fmt.Sprintf("%s.%v", f.Op, f.Value))
	}
	return params
}

func (q *QueryBuilder) url(params url.Values) string {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return reqURL
}

func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Error converts a non-2xx PostgREST response into an error carrying the
// server's message.
func (r *Response) Error() error {
	if r.StatusCode < 400 {
		return nil
	}
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(r.Body, &errResp); err == nil {
		if errResp.Message != "" {
			return fmt.Errorf("supabase API error %d: %s", r.StatusCode, errResp.Message)
		}
		if errResp.Error != "" {
			return fmt.Errorf("supabase API error %d: %s", r.StatusCode, errResp.Error)
		}
	}
	return fmt.Errorf("supabase API error %d: %s", r.StatusCode, strings.TrimSpace(string(r.Body)))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}
