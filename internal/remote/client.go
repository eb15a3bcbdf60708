// Package remote talks to the HTTP+JSON events API.
package remote

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

	"golang.org/x/oauth2"

	"github.com/jw6ventures/eventcal/internal/events"
	"github.com/jw6ventures/eventcal/internal/metrics"
)

const maxResponseBytes = 4 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("events api %s: unexpected status %d", e.Op, e.StatusCode)
}

// Client implements events.API over HTTP.
type Client struct {
	base       string
	httpClient *http.Client
}

var _ events.API = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sends a static bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		if token == "" {
			return
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
		authed.Timeout = c.httpClient.Timeout
		c.httpClient = authed
	}
}

// New returns a client for the events collection at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid events api url %q", baseURL)
	}
	c := &Client{
		base:       strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches every event.
func (c *Client) List(ctx context.Context) ([]events.Event, error) {
	var out []events.Event
	if err := c.do(ctx, "list", http.MethodGet, c.base+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new event and returns the record with its assigned id.
func (c *Client) Create(ctx context.Context, draft events.Draft) (events.Event, error) {
	var out events.Event
	if err := c.do(ctx, "create", http.MethodPost, c.base+"/", draft, &out); err != nil {
		return events.Event{}, err
	}
	if !out.Persisted() {
		return events.Event{}, fmt.Errorf("events api create: response has no id")
	}
	return out, nil
}

// Update replaces the event addressed by ev.ID.
func (c *Client) Update(ctx context.Context, ev events.Event) (events.Event, error) {
	if ev.ID == "" {
		return events.Event{}, fmt.Errorf("events api update: event has no id")
	}
	var out events.Event
	if err := c.do(ctx, "update", http.MethodPut, c.eventURL(ev.ID), ev, &out); err != nil {
		return events.Event{}, err
	}
	return out, nil
}

// Delete removes the event addressed by id.
func (c *Client) Delete(ctx context.Context, id events.ID) error {
	if id == "" {
		return fmt.Errorf("events api delete: empty id")
	}
	return c.do(ctx, "delete", http.MethodDelete, c.eventURL(id), nil, nil)
}

func (c *Client) eventURL(id events.ID) string {
	return c.base + "/" + url.PathEscape(string(id))
}

func (c *Client) do(ctx context.Context, op, method, target string, body, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveAPICall(op, start, err) }()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("events api %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("events api %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("events api %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("events api %s: decode: %w", op, err)
	}
	return nil
}
