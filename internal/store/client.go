package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/awinkler/bgblwatch/internal/gazette"
)

// Client communicates with the document store HTTP API. All writes are
// merge-upserts by canonical key; nothing here ever destructively replaces a
// stored record.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Exists reports whether a record for the natural identifier is stored.
func (c *Client) Exists(ctx context.Context, naturalID string) (bool, error) {
	key := CanonicalKey(naturalID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/v1/notifications/"+key, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", key, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("exists %s: status %d", key, resp.StatusCode)
	}
}

// Get retrieves the stored notification for a natural identifier, or nil
// when none exists.
func (c *Client) Get(ctx context.Context, naturalID string) (*gazette.Notification, error) {
	key := CanonicalKey(naturalID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/notifications/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("get %s: status %d: %s", key, resp.StatusCode, string(respBody))
	}

	var n gazette.Notification
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	return &n, nil
}

type batchRequest struct {
	MergeMode string                 `json:"merge_mode"`
	Documents []gazette.Notification `json:"documents"`
}

// SaveAll upserts a batch of notifications in one write. Each record's ID is
// (re)derived from its natural identifier, updatedAt is stamped, and
// createdAt is set for first inserts; the store's merge mode keeps the
// earlier createdAt and any unrelated existing fields on subsequent writes.
func (c *Client) SaveAll(ctx context.Context, notifications []gazette.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]gazette.Notification, len(notifications))
	for i, n := range notifications {
		n.ID = CanonicalKey(n.OriginalID)
		n.UpdatedAt = now
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		n.FromCache = false // transient flag, never persisted as true
		docs[i] = n
	}

	body, err := json.Marshal(batchRequest{MergeMode: "merge", Documents: docs})
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/notifications/batch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("save batch: status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// ListRecent returns stored notifications ordered by update time, newest
// first.
func (c *Client) ListRecent(ctx context.Context, limit int) ([]gazette.Notification, error) {
	u := fmt.Sprintf("%s/v1/notifications?order=updatedAt&limit=%d", c.baseURL, limit)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list recent: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []gazette.Notification `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return result.Documents, nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
