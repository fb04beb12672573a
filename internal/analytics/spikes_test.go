package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"NewsPulse/internal/analytics"
	"NewsPulse/internal/domain"
)

func spike(iso string, keywords ...string) domain.SpikeInput {
	return domain.SpikeInput{Time: iso, Value: 1, Keywords: keywords}
}

func TestLabelSpikesLocalMaxima(t *testing.T) {
	// Hourly values [1, 1, 5, 1, 1]: only the middle hour crosses the
	// threshold and dominates its neighbors.
	items := []domain.SpikeInput{
		spike("2024-03-01T08:10:00Z", "quiet"),
		spike("2024-03-01T09:20:00Z", "quiet"),
		spike("2024-03-01T10:01:00Z", "quake"),
		spike("2024-03-01T10:12:00Z", "quake"),
		spike("2024-03-01T10:25:00Z", "quake"),
		spike("2024-03-01T10:38:00Z", "aftershock"),
		spike("2024-03-01T10:55:00Z", "tsunami"),
		spike("2024-03-01T11:30:00Z", "quiet"),
		spike("2024-03-01T12:45:00Z", "quiet"),
	}

	got := analytics.LabelSpikes(items, 3)
	require.Len(t, got, 5)

	require.Equal(t, "2024-03-01T08:00:00Z", got[0].HourStartISO)
	require.Equal(t, "2024-03-01T12:00:00Z", got[4].HourStartISO)

	for i, bucket := range got {
		if i == 2 {
			require.Equal(t, 5.0, bucket.Value)
			require.Equal(t, "quake", bucket.Label)
			continue
		}
		require.Empty(t, bucket.Label)
	}
}

func TestLabelSpikesEdgeBuckets(t *testing.T) {
	// A missing neighbor counts as equal, so a threshold-clearing first
	// or last bucket still labels.
	items := []domain.SpikeInput{
		spike("2024-03-01T08:00:00Z", "storm"),
		spike("2024-03-01T08:10:00Z", "storm"),
		spike("2024-03-01T08:20:00Z", "storm"),
		spike("2024-03-01T09:00:00Z", "calm"),
	}

	got := analytics.LabelSpikes(items, 3)
	require.Len(t, got, 2)
	require.Equal(t, "storm", got[0].Label)
	require.Empty(t, got[1].Label)
}

func TestLabelSpikesBelowThreshold(t *testing.T) {
	items := []domain.SpikeInput{
		spike("2024-03-01T08:00:00Z", "one"),
		spike("2024-03-01T09:00:00Z", "two"),
	}

	for _, bucket := range analytics.LabelSpikes(items, 3) {
		require.Empty(t, bucket.Label)
	}
}

func TestLabelSpikesKeywordTieBreak(t *testing.T) {
	// Equal counts: the keyword inserted first wins.
	items := []domain.SpikeInput{
		spike("2024-03-01T08:00:00Z", "alpha", "beta"),
		spike("2024-03-01T08:10:00Z", "beta", "alpha"),
		spike("2024-03-01T08:20:00Z", "gamma"),
	}

	got := analytics.LabelSpikes(items, 3)
	require.Len(t, got, 1)
	require.Equal(t, "alpha", got[0].Label)
}

func TestLabelSpikesTimezoneBuckets(t *testing.T) {
	// Offsets normalize to UTC calendar hours before bucketing.
	items := []domain.SpikeInput{
		spike("2024-03-01T17:05:00+09:00", "fx"), // 08:05 UTC
		spike("2024-03-01T08:30:00Z", "fx"),
		spike("2024-03-01T03:45:00-05:00", "fx"), // 08:45 UTC
	}

	got := analytics.LabelSpikes(items, 3)
	require.Len(t, got, 1)
	require.Equal(t, "2024-03-01T08:00:00Z", got[0].HourStartISO)
	require.Equal(t, 3.0, got[0].Value)
	require.Equal(t, "fx", got[0].Label)
}

func TestLabelSpikesSkipsBadTimes(t *testing.T) {
	items := []domain.SpikeInput{
		spike("not a time", "junk"),
		spike("", "junk"),
	}
	require.Empty(t, analytics.LabelSpikes(items, 1))
}

func TestSpikeInputs(t *testing.T) {
	extractor := analytics.NewTitleKeywords(3, 3)
	articles := []domain.Article{
		{Title: "Earthquake shakes northern coast", Time: "2024-03-01T10:00:00Z"},
		{Title: "undated item", Time: ""},
	}

	got := analytics.SpikeInputs(articles, extractor)
	require.Len(t, got, 1)
	require.Equal(t, 1.0, got[0].Value)
	require.Equal(t, []string{"earthquake", "shakes", "northern"}, got[0].Keywords)
}

func TestTitleKeywords(t *testing.T) {
	extractor := analytics.NewTitleKeywords(3, 3)

	tests := []struct {
		title string
		want  []string
	}{
		{"BBC News: Markets rally on rate cut hopes", []string{"news", "markets", "rally"}},
		{"The cat and the hat", []string{"cat", "hat"}},
		{"Go 1.25 released", []string{"released"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, extractor.Extract(tt.title), tt.title)
	}
}
