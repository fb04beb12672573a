package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"NewsPulse/internal/config"
	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// Client talks to the external LLM-backed Narrative Service. The core
// only hands it immutable compacted snapshots and tolerates arbitrary
// latency or failure without corrupting its own state.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client

	mu    sync.Mutex
	notes map[string]string
}

var _ ports.NarrativeClient = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.NarrativeConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 60 * time.Second},
		notes:    make(map[string]string),
	}
}

// Annotate requests a short per-title note. Notes are memoized per
// title for the process lifetime.
func (c *Client) Annotate(ctx context.Context, title string, meta domain.CompactItem) (string, error) {
	c.mu.Lock()
	if note, ok := c.notes[title]; ok {
		c.mu.Unlock()
		return note, nil
	}
	c.mu.Unlock()

	payload := map[string]any{
		"title": title,
		"meta": map[string]string{
			"source":  meta.Source,
			"time":    meta.Time,
			"summary": meta.Summary,
		},
	}

	var out struct {
		Note string `json:"note"`
	}
	if err := c.post(ctx, "/api/annotate", payload, &out); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.notes[title] = out.Note
	c.mu.Unlock()
	return out.Note, nil
}

// Forecast requests a structured near-term forecast over the compacted
// article list.
func (c *Client) Forecast(ctx context.Context, items []domain.CompactItem, horizonDays, limit int) (domain.Forecast, error) {
	if limit < 1 {
		limit = len(items)
	}
	if limit > 1000 {
		limit = 1000
	}

	payload := map[string]any{
		"items":       items,
		"horizonDays": horizonDays,
		"limit":       limit,
	}

	var out domain.Forecast
	if err := c.post(ctx, "/api/forecast", payload, &out); err != nil {
		return domain.Forecast{}, err
	}
	return out, nil
}

// SelectArticles asks the service to extract relevant phrases and pick
// article IDs for a free-text query.
func (c *Client) SelectArticles(ctx context.Context, query string, items []domain.CompactItem, limit int) (domain.Selection, error) {
	payload := map[string]any{
		"query": query,
		"items": items,
		"limit": limit,
	}

	var out domain.Selection
	if err := c.post(ctx, "/api/select_articles", payload, &out); err != nil {
		return domain.Selection{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if c.endpoint == "" {
		return fmt.Errorf("narrative client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal narrative payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call narrative %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("narrative %s error %s: %s", path, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode narrative %s response: %w", path, err)
	}
	return nil
}

// CompactItems reduces articles to the narrative wire form, capped at
// 500 entries.
func CompactItems(articles []domain.Article) []domain.CompactItem {
	limit := len(articles)
	if limit > 500 {
		limit = 500
	}

	items := make([]domain.CompactItem, 0, limit)
	for _, a := range articles[:limit] {
		items = append(items, domain.CompactItem{
			Title:   a.Title,
			Summary: a.Summary,
			Source:  a.Source,
			Time:    a.Time,
		})
	}
	return items
}
