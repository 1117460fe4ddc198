// Package airapi is a client for the air-monitoring REST backend.
//
// Every endpoint answers with a JSON envelope of the form {"data": ...}. GET responses
// are kept in a short-lived cache so that several views asking for the same data in
// quick succession cost one request.
package airapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Muhammad-Zunain/air-monitoring/cache"
)

const (
	DefaultBaseURL  = "http://localhost:2000/api/air-monitoring"
	UserAgent       = "air-monitoring-dashboard/1.0"
	DefaultTimeout  = 10 * time.Second
	DefaultCacheTTL = 30 * time.Second
)

// StatusError is returned when the backend answers with a non-200 status.
type StatusError struct {
	Path       string
	StatusCode int
	Status     string

	// Message is the "message" field of the error body, if it had one.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airapi: %s: %s: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("airapi: %s: %s", e.Path, e.Status)
}

type Config struct {
	BaseURL string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// CacheTTL is how long GET responses are reused. Zero or less disables caching.
	CacheTTL time.Duration

	Logger *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient http.Client
	cache      *cache.Cache[[]byte]
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: http.Client{
			Timeout: cfg.Timeout,
		},
		cache:    cache.New[[]byte](),
		cacheTTL: cfg.CacheTTL,
		logger:   cfg.Logger,
	}
}

func (client *Client) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if client.logger != nil {
		client.logger.Log(ctx, level, msg, args...)
	}
}

// BaseURL returns the URL all endpoint paths are relative to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// CacheStats reports how often GET responses were served from the cache.
func (client *Client) CacheStats() cache.Stats {
	return client.cache.Stats()
}

// Invalidate drops every cached response.
func (client *Client) Invalidate() {
	client.cache.Flush()
}

// CleanCache drops expired cached responses and returns how many it dropped.
func (client *Client) CleanCache() int {
	return client.cache.Clean()
}

func (client *Client) url(path string, query url.Values) string {
	u := client.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get fetches path and decodes the "data" field of the response into out.
func (client *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return client.fetch(ctx, path, query, out, false)
}

// fetch is get with the option of skipping the cache lookup. A fresh response still
// replaces the cached one.
func (client *Client) fetch(ctx context.Context, path string, query url.Values, out any, fresh bool) error {
	u := client.url(path, query)

	if client.cacheTTL > 0 && !fresh {
		if body, ok := client.cache.Get(u); ok {
			client.log(ctx, slog.LevelDebug, "Serving cached response", "url", u)
			return decodeData(body, out)
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("airapi: failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	body, err := client.do(request, path)
	if err != nil {
		return err
	}

	if err := decodeData(body, out); err != nil {
		return fmt.Errorf("airapi: %s: %w", path, err)
	}

	if client.cacheTTL > 0 {
		client.cache.Set(u, body, client.cacheTTL)
	}
	return nil
}

func (client *Client) do(request *http.Request, path string) ([]byte, error) {
	request.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("airapi: %s: request failed: %w", path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("airapi: %s: failed to read response body: %w", path, err)
	}

	client.log(request.Context(), slog.LevelDebug, "Request done",
		"method", request.Method, "path", path, "status", response.StatusCode, "took", time.Since(start))

	if response.StatusCode != http.StatusOK {
		serr := &StatusError{
			Path:       path,
			StatusCode: response.StatusCode,
			Status:     response.Status,
		}

		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil {
			serr.Message = msg.Message
		}
		return nil, serr
	}

	return body, nil
}

// decodeData decodes the "data" field of an envelope. A bare JSON array is accepted
// as the data itself.
func decodeData(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return errors.New("response has no data field")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}
