package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"NewsPulse/internal/analytics"
	"NewsPulse/internal/domain"
	"NewsPulse/internal/feed"
	"NewsPulse/internal/ports"
)

var feedURLExpr = regexp.MustCompile(`^https?://`)

// FeedRef names one upstream feed for aggregation.
type FeedRef struct {
	Source string
	URL    string
}

// PipelineDeps wires the driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher   ports.FeedFetcher
	Extractor ports.KeywordExtractor
	Logger    *slog.Logger
}

// Pipeline implements the feed ingestion and analytics workflow.
type Pipeline struct {
	fetcher   ports.FeedFetcher
	extractor ports.KeywordExtractor
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		fetcher:   deps.Fetcher,
		extractor: deps.Extractor,
		logger:    deps.Logger,
	}
}

// Raw fetches one feed without normalization, for passthrough serving.
func (p *Pipeline) Raw(ctx context.Context, url string) (domain.RawFeedResponse, error) {
	return p.fetcher.Fetch(ctx, url)
}

// Normalized fetches one feed and normalizes it. Fetch failures surface
// to the caller; parse failures degrade to an empty-but-valid feed
// inside Normalize.
func (p *Pipeline) Normalized(ctx context.Context, url string) (domain.NormalizedFeed, error) {
	raw, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.NormalizedFeed{}, err
	}
	return feed.Normalize(raw.Body), nil
}

// Aggregate fans out over the given feeds, normalizes each, and merges
// the results into one deduplicated, recency-sorted collection. Feeds
// are independent: a malformed URL is skipped silently, a fetch failure
// is logged and skipped, and neither aborts the siblings.
func (p *Pipeline) Aggregate(ctx context.Context, feeds []FeedRef) ([]domain.Article, error) {
	if len(feeds) == 0 {
		return nil, feed.ErrEmptyFeedList
	}

	batches := make([][]domain.Article, len(feeds))
	var wg sync.WaitGroup

	for i, ref := range feeds {
		if !feedURLExpr.MatchString(ref.URL) {
			continue
		}

		wg.Add(1)
		go func(i int, ref FeedRef) {
			defer wg.Done()

			normalized, err := p.Normalized(ctx, ref.URL)
			if err != nil {
				p.logger.Warn("feed skipped", "source", ref.Source, "url", ref.URL, "error", err)
				return
			}

			items := normalized.Items
			if ref.Source != "" {
				for j := range items {
					items[j].Source = ref.Source
				}
			}
			batches[i] = items
		}(i, ref)
	}
	wg.Wait()

	return feed.MergeAndDedupe(batches), nil
}

// PrefixSources marks each title with its feed of origin, after
// deduplication so the prefix never perturbs identity keys.
func PrefixSources(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	copy(out, articles)
	for i := range out {
		if out[i].Source != "" {
			out[i].Title = "[" + out[i].Source + "] " + out[i].Title
		}
	}
	return out
}

// Overview is the immutable analytics snapshot handed to presentation
// and to asynchronous narrative calls.
type Overview struct {
	Series  []domain.TimeSeriesPoint `json:"series"`
	Labeled []domain.LabeledBucket   `json:"labeled"`
	Summary analytics.Summary        `json:"summary"`
	Count   int                      `json:"count"`
}

// Analyze computes both independent time-series views over one article
// snapshot: the configurable-bin derivative series and the fixed hourly
// spike-label series. The two deliberately stay unreconciled.
func (p *Pipeline) Analyze(articles []domain.Article, binWidth time.Duration, threshold float64) Overview {
	series := analytics.BuildSeries(articles, binWidth)
	labeled := analytics.LabelSpikes(analytics.SpikeInputs(articles, p.extractor), threshold)

	return Overview{
		Series:  series,
		Labeled: labeled,
		Summary: analytics.Summarize(series),
		Count:   len(articles),
	}
}
