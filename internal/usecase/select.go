package usecase

import (
	"context"
	"fmt"
	"strings"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/infrastructure/narrative"
	"NewsPulse/internal/ports"
)

// SelectResult reports what the AI selection kept and what the forecast
// over the survivors said.
type SelectResult struct {
	Phrases       []string        `json:"phrases"`
	SelectedCount int             `json:"selectedCount"`
	Forecast      domain.Forecast `json:"forecast"`
}

// Selector drives the select-then-forecast flow against the Narrative
// Service.
type Selector struct {
	client      ports.NarrativeClient
	horizonDays int
}

// NewSelector wires the narrative client with its default horizon.
func NewSelector(client ports.NarrativeClient, horizonDays int) *Selector {
	if horizonDays <= 0 {
		horizonDays = 14
	}
	return &Selector{client: client, horizonDays: horizonDays}
}

// SelectAndForecast asks the Narrative Service which articles matter
// for a free-text query, narrows the collection, and forecasts over the
// survivors. Narrowing prefers phrase-in-title matches, falls back to
// the service's selected IDs, and finally to the whole collection so a
// sparse selection never produces an empty forecast request.
func (s *Selector) SelectAndForecast(ctx context.Context, query string, articles []domain.Article) (SelectResult, error) {
	items := compactWithIDs(articles)

	selection, err := s.client.SelectArticles(ctx, query, items, 200)
	if err != nil {
		return SelectResult{}, fmt.Errorf("select articles: %w", err)
	}

	phrases := cleanPhrases(selection.Phrases)

	selected := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if titleContainsAny(a.Title, phrases) {
			selected = append(selected, a)
		}
	}

	if len(selected) == 0 && len(selection.SelectedIDs) > 0 {
		ids := make(map[string]struct{}, len(selection.SelectedIDs))
		for _, id := range selection.SelectedIDs {
			ids[id] = struct{}{}
		}
		for i, a := range articles {
			if _, ok := ids[articleID(a, i)]; ok {
				selected = append(selected, a)
			}
		}
	}

	if len(selected) == 0 {
		selected = articles
	}

	forecast, err := s.client.Forecast(ctx, narrative.CompactItems(selected), s.horizonDays, len(selected))
	if err != nil {
		return SelectResult{}, fmt.Errorf("forecast: %w", err)
	}

	return SelectResult{
		Phrases:       phrases,
		SelectedCount: len(selected),
		Forecast:      forecast,
	}, nil
}

// Annotate requests a short per-title note from the Narrative Service.
func (s *Selector) Annotate(ctx context.Context, title string, meta domain.CompactItem) (string, error) {
	return s.client.Annotate(ctx, title, meta)
}

// Forecast runs the plain forecast over the whole collection.
func (s *Selector) Forecast(ctx context.Context, articles []domain.Article) (domain.Forecast, error) {
	return s.client.Forecast(ctx, narrative.CompactItems(articles), s.horizonDays, len(articles))
}

// articleID mirrors the stable rendering key: the dedup key when
// available, else a positional composite.
func articleID(a domain.Article, i int) string {
	if a.DedupKey != "" && a.DedupKey != "|" {
		return a.DedupKey
	}
	source := a.Source
	if source == "" {
		source = "src"
	}
	return fmt.Sprintf("%s|%s|%s|%d", source, a.Title, a.URL, i)
}

func compactWithIDs(articles []domain.Article) []domain.CompactItem {
	limit := len(articles)
	if limit > 500 {
		limit = 500
	}

	items := make([]domain.CompactItem, 0, limit)
	for i, a := range articles[:limit] {
		items = append(items, domain.CompactItem{
			ID:      articleID(a, i),
			Title:   a.Title,
			Summary: a.Summary,
			Source:  a.Source,
			Time:    a.Time,
		})
	}
	return items
}

// cleanPhrases trims, drops short entries, and deduplicates while
// preserving order.
func cleanPhrases(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if len(p) < 3 {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func titleContainsAny(title string, phrases []string) bool {
	if title == "" || len(phrases) == 0 {
		return false
	}
	t := strings.ToLower(title)
	for _, p := range phrases {
		if strings.Contains(t, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
