package feed

import (
	"sort"

	"NewsPulse/internal/domain"
)

// MergeAndDedupe flattens article batches from multiple feeds into one
// collection. The first-seen article per DedupKey wins (input order;
// later duplicates are dropped, not merged field by field) and the
// result is sorted by recency, unparseable dates sinking to the bottom.
// No cap is imposed here; truncation is the caller's concern.
func MergeAndDedupe(batches [][]domain.Article) []domain.Article {
	seen := make(map[string]struct{})
	merged := make([]domain.Article, 0)

	for _, batch := range batches {
		for _, article := range batch {
			if _, ok := seen[article.DedupKey]; ok {
				continue
			}
			seen[article.DedupKey] = struct{}{}
			merged = append(merged, article)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SortTimestamp > merged[j].SortTimestamp
	})

	return merged
}
