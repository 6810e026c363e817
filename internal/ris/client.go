// Package ris is the client for the legal information system: the gazette
// publication feed, publication body downloads, and the law registry search.
package ris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/awinkler/bgblwatch/internal/gazette"
)

// Client communicates with the RIS HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Query selects one feed page of publication references.
type Query struct {
	Jurisdiction string // "BgblAuth" for federal law, state application code otherwise
	From         time.Time
	To           time.Time
	Limit        int
}

type feedDocument struct {
	Number       string    `json:"number"`
	Title        string    `json:"title"`
	Published    string    `json:"published"` // YYYY-MM-DD
	Jurisdiction string    `json:"application"`
	ContentURLs  []feedURL `json:"contentUrls"`
}

type feedURL struct {
	Format string `json:"dataType"`
	URL    string `json:"url"`
}

// QueryPublications returns the feed's document references for one polling
// pass. References are metadata only; bodies are fetched separately.
func (c *Client) QueryPublications(ctx context.Context, q Query) ([]gazette.RawDocument, error) {
	v := url.Values{}
	if q.Jurisdiction != "" {
		v.Set("application", q.Jurisdiction)
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.Format("2006-01-02"))
	}
	if q.Limit > 0 {
		v.Set("limit", fmt.Sprintf("%d", q.Limit))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/publications?"+v.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query publications: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("query publications: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []feedDocument `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	docs := make([]gazette.RawDocument, 0, len(result.Documents))
	for _, d := range result.Documents {
		published, _ := time.Parse("2006-01-02", d.Published)
		raw := gazette.RawDocument{
			NaturalID:    d.Number,
			Title:        d.Title,
			PublishedAt:  published,
			Jurisdiction: d.Jurisdiction,
		}
		for _, u := range d.ContentURLs {
			raw.ContentURLs = append(raw.ContentURLs, gazette.ContentURL{Format: u.Format, URL: u.URL})
		}
		docs = append(docs, raw)
	}
	return docs, nil
}

// FetchBody downloads one publication body. Any non-2xx status is an error;
// the caller skips the document for this pass.
func (c *Client) FetchBody(ctx context.Context, bodyURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, bodyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch body: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch body %s: status %d", bodyURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// RegistryDoc is one candidate from the law registry search.
type RegistryDoc struct {
	ShortTitle      string `json:"shortTitle"`
	Organ           string `json:"publicationOrgan"`
	Number          string `json:"publicationNumber"`
	ConsolidatedURL string `json:"consolidatedVersionUrl"`
}

// SearchLaw queries the registry by law title and returns candidate
// documents. An empty result is not an error.
func (c *Client) SearchLaw(ctx context.Context, title string) ([]RegistryDoc, error) {
	v := url.Values{}
	v.Set("title", title)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/laws/search?"+v.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search law: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search law %q: status %d: %s", title, resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []RegistryDoc `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	return result.Documents, nil
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
