package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.7"

// Fetcher retrieves raw feed bytes with a short-lived freshness cache in
// front of the network. No retries; callers decide whether a failure is
// fatal or just drops one feed from an aggregate.
type Fetcher struct {
	client    *http.Client
	cache     *Cache
	userAgent string
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client and a cache; both may be nil for defaults.
func NewFetcher(client *http.Client, cache *Cache, userAgent string) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if cache == nil {
		cache = NewCache(60 * time.Second)
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; NewsPulse/1.0)"
	}
	return &Fetcher{client: client, cache: cache, userAgent: userAgent}
}

// Fetch returns the cached response when fresh, otherwise issues a GET
// and stores the whole response on success.
func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.RawFeedResponse, error) {
	if cached, ok := f.cache.Get(url); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RawFeedResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.RawFeedResponse{}, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RawFeedResponse{}, &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawFeedResponse{}, fmt.Errorf("read feed body: %w", err)
	}

	raw := domain.RawFeedResponse{
		FetchedAtMs: time.Now().UnixMilli(),
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
	}
	f.cache.Put(url, raw)
	return raw, nil
}
