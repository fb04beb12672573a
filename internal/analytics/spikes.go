package analytics

import (
	"sort"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// SpikeInputs converts articles into labeler inputs: each dated article
// contributes value 1 plus its title keywords. Undated articles are
// skipped — the hourly series only covers placeable events.
func SpikeInputs(articles []domain.Article, extractor ports.KeywordExtractor) []domain.SpikeInput {
	inputs := make([]domain.SpikeInput, 0, len(articles))
	for _, a := range articles {
		if _, err := time.Parse(time.RFC3339, a.Time); err != nil {
			continue
		}
		inputs = append(inputs, domain.SpikeInput{
			Time:     a.Time,
			Value:    1,
			Keywords: extractor.Extract(a.Title),
		})
	}
	return inputs
}

type hourBucket struct {
	startISO string
	value    float64
	counts   map[string]int
	order    []string
}

// LabelSpikes bins inputs into calendar-hour buckets (UTC) and labels
// local maxima at or above the threshold with their dominant keyword.
// A first or last bucket compares only against its existing neighbor;
// the missing one is treated as equal, so ties still count as spikes.
// This series is intentionally independent of the derivative series and
// the two are never reconciled.
func LabelSpikes(items []domain.SpikeInput, threshold float64) []domain.LabeledBucket {
	buckets := make(map[string]*hourBucket)
	for _, it := range items {
		ts, err := time.Parse(time.RFC3339, it.Time)
		if err != nil {
			continue
		}
		key := ts.UTC().Truncate(time.Hour).Format(time.RFC3339)

		b, ok := buckets[key]
		if !ok {
			b = &hourBucket{startISO: key, counts: make(map[string]int)}
			buckets[key] = b
		}
		b.value += it.Value
		for _, kw := range it.Keywords {
			if kw == "" {
				continue
			}
			if _, seen := b.counts[kw]; !seen {
				b.order = append(b.order, kw)
			}
			b.counts[kw]++
		}
	}

	ordered := make([]*hourBucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].startISO < ordered[j].startISO
	})

	out := make([]domain.LabeledBucket, 0, len(ordered))
	for i, b := range ordered {
		prev, next := b.value, b.value
		if i > 0 {
			prev = ordered[i-1].value
		}
		if i < len(ordered)-1 {
			next = ordered[i+1].value
		}

		label := ""
		if b.value >= threshold && b.value >= prev && b.value >= next {
			label = b.topKeyword()
		}

		out = append(out, domain.LabeledBucket{
			HourStartISO: b.startISO,
			Value:        b.value,
			Label:        label,
		})
	}
	return out
}

// topKeyword returns the highest-count keyword, ties broken by first
// encounter order.
func (b *hourBucket) topKeyword() string {
	best := ""
	bestCount := 0
	for _, kw := range b.order {
		if b.counts[kw] > bestCount {
			best = kw
			bestCount = b.counts[kw]
		}
	}
	return best
}
