package ports

import (
	"context"

	"NewsPulse/internal/domain"
)

// FeedFetcher retrieves raw feed bytes for a URL, serving repeated
// requests from a freshness cache.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (domain.RawFeedResponse, error)
}

// KeywordExtractor turns an article title into candidate keywords for
// spike labeling. Kept behind an interface so a real NLP implementation
// can replace the crude tokenizer without touching the series math.
type KeywordExtractor interface {
	Extract(title string) []string
}

// NarrativeClient is the contract boundary to the external LLM-backed
// annotate/forecast/select services.
type NarrativeClient interface {
	Annotate(ctx context.Context, title string, meta domain.CompactItem) (string, error)
	Forecast(ctx context.Context, items []domain.CompactItem, horizonDays, limit int) (domain.Forecast, error)
	SelectArticles(ctx context.Context, query string, items []domain.CompactItem, limit int) (domain.Selection, error)
}
