package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits to prevent resource exhaustion against a
// single collection host
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
	defaultRequestTimeout      = 10 * time.Second
)

// Client is the HTTP client for the hero collection endpoint.
//
// Client applies a per-request timeout via context rather than a global
// client timeout, bounds response body reads to 1MB, and tags every request
// with an X-Request-ID header for correlation in server logs.
type Client struct {
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a collection [Client] for the given base URL.
//
// baseURL is the API root (e.g. "http://localhost:3000"); the /heroes
// collection path is appended by the client. headers are sent with every
// request and may be nil. A non-positive timeout falls back to 10 seconds.
func NewClient(baseURL string, headers map[string]string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		headers: headers,
		timeout: timeout,
		httpClient: &http.Client{
			// no default timeout - per-request timeouts via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
	}
}

// List fetches one page of heroes matching the filters.
//
// Pagination and substring name filtering happen server-side; the name
// filter is sent as name_like and matched case-insensitively.
func (c *Client) List(ctx context.Context, f Filters) (Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("pageSize", strconv.Itoa(f.PageSize))
	if f.Name != "" {
		params.Set("name_like", f.Name)
	}

	var page Page
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/heroes?"+params.Encode(), nil, &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Get fetches a single hero by id.
func (c *Client) Get(ctx context.Context, id string) (Hero, error) {
	var hero Hero
	if err := c.do(ctx, http.MethodGet, c.heroURL(id), nil, &hero); err != nil {
		return Hero{}, err
	}
	return hero, nil
}

// Create posts a new hero draft and returns the created hero with its
// server-assigned id and timestamps.
//
// The client stamps createdAt and updatedAt into the request body, matching
// the original service behavior; the server is free to overwrite them.
func (c *Client) Create(ctx context.Context, draft Draft) (Hero, error) {
	now := time.Now().UTC()
	body := struct {
		Name            string    `json:"name"`
		Powers          []string  `json:"powers"`
		AlterEgo        string    `json:"alterEgo,omitempty"`
		Publisher       string    `json:"publisher"`
		FirstAppearance time.Time `json:"firstAppearance"`
		ImageURL        string    `json:"imageUrl"`
		CreatedAt       time.Time `json:"createdAt"`
		UpdatedAt       time.Time `json:"updatedAt"`
	}{
		Name:            draft.Name,
		Powers:          draft.Powers,
		AlterEgo:        draft.AlterEgo,
		Publisher:       draft.Publisher,
		FirstAppearance: draft.FirstAppearance,
		ImageURL:        draft.ImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var hero Hero
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/heroes", body, &hero); err != nil {
		return Hero{}, err
	}
	return hero, nil
}

// Update patches an existing hero and returns the updated record.
//
// Only non-nil patch fields are sent. The client stamps updatedAt; the
// server recomputes it on write.
func (c *Client) Update(ctx context.Context, id string, patch Patch) (Hero, error) {
	patch.UpdatedAt = time.Now().UTC()

	var hero Hero
	if err := c.do(ctx, http.MethodPatch, c.heroURL(id), patch, &hero); err != nil {
		return Hero{}, err
	}
	return hero, nil
}

// Delete removes a hero by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.heroURL(id), nil, nil)
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times. After Close, the client remains usable but
// new connections will be established as needed.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// heroURL builds the item URL for an id, escaping path characters.
func (c *Client) heroURL(id string) string {
	return c.baseURL + "/heroes/" + url.PathEscape(id)
}

// do performs a request and decodes the response into out (if non-nil).
//
// A nil body sends no payload; any other body is JSON-encoded. Non-2xx
// responses are returned as *Error with the message taken from the response
// body's "message" field when present. Transport failures are returned as
// wrapped errors.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the "message" field from an error payload, falling
// back to the standard status text.
func errorMessage(data []byte, statusCode int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(statusCode)
}
