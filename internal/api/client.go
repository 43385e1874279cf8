// Package api implements the HTTP client for the reading-list backend.
//
// The client is the only component that knows transport details (paths,
// verbs, status codes). Everything above it sees news.Item values and
// classified errors.
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
	"golang.org/x/time/rate"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
)

// defaultTimeout bounds each request when the config doesn't say otherwise.
const defaultTimeout = 15 * time.Second

// maxErrBody caps how much of an error response body is kept for messages.
const maxErrBody = 200

// Client talks to the reading-list API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given base URL and bearer token.
// A zero timeout falls back to the default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5), // ~10 RPS, small burst
	}
}

// FetchItems retrieves the user's items matching the filter spec.
//
// The is_favorite query parameter is emitted only when FavoritesOnly is set:
// sending false would constrain to non-favorites, which is never what the
// board means by "favorites filter off".
func (c *Client) FetchItems(ctx context.Context, spec news.FilterSpec) ([]news.Item, error) {
	q := url.Values{}
	if spec.Category != nil {
		q.Set("category", string(*spec.Category))
	}
	if spec.FavoritesOnly {
		q.Set("is_favorite", "true")
	}
	if spec.From != nil {
		q.Set("date_from", spec.From.UTC().Format(time.RFC3339))
	}
	if spec.To != nil {
		q.Set("date_to", spec.To.UTC().Format(time.RFC3339))
	}
	if spec.Limit > 0 {
		q.Set("limit", strconv.Itoa(spec.Limit))
	}
	if spec.Offset > 0 {
		q.Set("offset", strconv.Itoa(spec.Offset))
	}

	path := "/api/news/user"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []news.Item
	if err := c.do(ctx, "fetch items", http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus moves an item to a new workflow stage and returns the
// server's view of the item.
func (c *Client) UpdateStatus(ctx context.Context, id string, status news.Status) (news.Item, error) {
	body := map[string]string{"status": string(status)}
	var item news.Item
	err := c.do(ctx, "update status", http.MethodPatch, "/api/news/"+url.PathEscape(id)+"/status", body, &item)
	return item, err
}

// ToggleFavorite sets an item's favorite flag and returns the server's view
// of the item.
func (c *Client) ToggleFavorite(ctx context.Context, id string, value bool) (news.Item, error) {
	body := map[string]bool{"is_favorite": value}
	var item news.Item
	err := c.do(ctx, "toggle favorite", http.MethodPatch, "/api/news/"+url.PathEscape(id)+"/favorite", body, &item)
	return item, err
}

// UpsertNote sets or replaces an item's personal note.
func (c *Client) UpsertNote(ctx context.Context, id, note string) (news.Item, error) {
	body := map[string]string{"personal_note": note}
	var item news.Item
	err := c.do(ctx, "upsert note", http.MethodPut, "/api/news/"+url.PathEscape(id)+"/note", body, &item)
	return item, err
}

// DeleteNote clears an item's personal note.
func (c *Client) DeleteNote(ctx context.Context, id string) (news.Item, error) {
	var item news.Item
	err := c.do(ctx, "delete note", http.MethodDelete, "/api/news/"+url.PathEscape(id)+"/note", nil, &item)
	return item, err
}

// do performs one API request: rate limit, marshal, send, classify, decode.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", "newsboard/0.1 (https://github.com/abelbrown/newsboard)")

	logging.Debug("API request", "op", op, "method", method, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		kind := kindForStatus(resp.StatusCode)
		logging.Warn("API error", "op", op, "status", resp.StatusCode, "kind", kind)
		return &Error{
			Kind:   kind,
			Status: resp.StatusCode,
			Op:     op,
			Body:   truncate(string(respBody), maxErrBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Kind: KindNetwork, Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// truncate shortens s to at most n characters for log/error use.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
