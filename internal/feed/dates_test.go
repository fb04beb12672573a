package feed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsPulse/internal/feed"
)

func TestParseWhen(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantISO string
	}{
		{
			name:    "rfc1123 pubDate",
			raw:     "Fri, 01 Mar 2024 10:00:00 GMT",
			wantISO: "2024-03-01T10:00:00Z",
		},
		{
			name:    "iso dc date",
			raw:     "2024-03-01T10:00:00Z",
			wantISO: "2024-03-01T10:00:00Z",
		},
		{
			name:    "iso with offset",
			raw:     "2024-03-01T19:00:00+09:00",
			wantISO: "2024-03-01T10:00:00Z",
		},
		{
			name:    "jst alpha zone",
			raw:     "Fri, 01 Mar 2024 19:00:00 JST",
			wantISO: "2024-03-01T10:00:00Z",
		},
		{
			name:    "bare local stamp treated as utc",
			raw:     "2024-03-01 10:00:00",
			wantISO: "2024-03-01T10:00:00Z",
		},
		{
			name:    "whitespace trimmed",
			raw:     "  2024-03-01T10:00:00Z  ",
			wantISO: "2024-03-01T10:00:00Z",
		},
	}

	want := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iso, ms := feed.ParseWhen(tt.raw)
			require.Equal(t, tt.wantISO, iso)
			require.Equal(t, want.UnixMilli(), ms)
		})
	}
}

func TestParseWhenEpochNumbers(t *testing.T) {
	want := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)

	iso, ms := feed.ParseWhen("1709287200") // seconds
	require.Equal(t, "2024-03-01T10:00:00Z", iso)
	require.Equal(t, want.UnixMilli(), ms)

	iso, ms = feed.ParseWhen("1709287200000") // milliseconds
	require.Equal(t, "2024-03-01T10:00:00Z", iso)
	require.Equal(t, want.UnixMilli(), ms)
}

func TestParseWhenNeverInvents(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a date", "soon"} {
		iso, ms := feed.ParseWhen(raw)
		require.Empty(t, iso)
		require.Zero(t, ms)
	}
}
