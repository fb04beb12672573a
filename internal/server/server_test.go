package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsPulse/internal/analytics"
	"NewsPulse/internal/domain"
	"NewsPulse/internal/feed"
	"NewsPulse/internal/server"
	"NewsPulse/internal/usecase"
)

type routedFetcher struct {
	bodies map[string]string
	errs   map[string]error
}

func (f *routedFetcher) Fetch(_ context.Context, url string) (domain.RawFeedResponse, error) {
	if err, ok := f.errs[url]; ok {
		return domain.RawFeedResponse{}, err
	}
	return domain.RawFeedResponse{Body: f.bodies[url], ContentType: "text/xml"}, nil
}

type stubNarrative struct{}

func (stubNarrative) Annotate(_ context.Context, title string, _ domain.CompactItem) (string, error) {
	return "about " + title, nil
}

func (stubNarrative) Forecast(_ context.Context, items []domain.CompactItem, _, _ int) (domain.Forecast, error) {
	return domain.Forecast{Narrative: "stable", CoverageCount: len(items)}, nil
}

func (stubNarrative) SelectArticles(context.Context, string, []domain.CompactItem, int) (domain.Selection, error) {
	return domain.Selection{Phrases: []string{"quake"}}, nil
}

const feedAURL = "https://a.example.org/feed"
const feedBURL = "https://b.example.org/feed"

func newTestRouter(withNarrative bool) http.Handler {
	fetcher := &routedFetcher{
		bodies: map[string]string{
			feedAURL: `<rss version="2.0"><channel><title>A Wire</title>
<item><title>Quake hits region</title><link>https://a.example.org/1</link><pubDate>Fri, 01 Mar 2024 10:00:00 GMT</pubDate></item>
<item><title>Quake aftershocks</title><link>https://a.example.org/2</link><pubDate>Fri, 01 Mar 2024 10:20:00 GMT</pubDate></item>
<item><title>Quake damage toll</title><link>https://a.example.org/3</link><pubDate>Fri, 01 Mar 2024 10:40:00 GMT</pubDate></item>
</channel></rss>`,
			feedBURL: `<rss version="2.0"><channel><title>B Wire</title>
<item><title>Markets open flat</title><link>https://b.example.org/1</link><pubDate>Fri, 01 Mar 2024 12:00:00 GMT</pubDate></item>
</channel></rss>`,
		},
		errs: map[string]error{
			"https://down.example.org/feed": &feed.FetchError{URL: "https://down.example.org/feed", Status: 503},
		},
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:   fetcher,
		Extractor: analytics.NewTitleKeywords(3, 3),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	var selector *usecase.Selector
	if withNarrative {
		selector = usecase.NewSelector(stubNarrative{}, 14)
	}

	return server.New(server.Deps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Pipeline: pipeline,
		Selector: selector,
		Feeds: []usecase.FeedRef{
			{Source: "a-wire", URL: feedAURL},
			{Source: "b-wire", URL: feedBURL},
		},
		BinWidth:  30 * time.Minute,
		Threshold: 3,
	}).Router()
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRawPassthrough(t *testing.T) {
	router := newTestRouter(false)

	rec := doRequest(t, router, http.MethodGet, "/feed/raw?url="+feedAURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/rss+xml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "A Wire")

	rec = doRequest(t, router, http.MethodGet, "/feed/raw", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "missing_url")

	rec = doRequest(t, router, http.MethodGet, "/feed/raw?url=https://down.example.org/feed", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "upstream_error")
}

func TestNormalizedEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/feed/normalized?url="+feedAURL, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.NormalizedFeed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, domain.KindRSS, got.Kind)
	require.Len(t, got.Items, 3)
	require.Equal(t, "Quake hits region", got.Items[0].Title)
}

func TestRepublishEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/feed/republish?url="+feedBURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/rss+xml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), `<rss version="2.0">`)
	require.Contains(t, rec.Body.String(), "<title>Markets open flat</title>")
	require.Contains(t, rec.Body.String(), "<pubDate>Fri, 01 Mar 2024 12:00:00 GMT</pubDate>")
}

func TestAggregateEndpoint(t *testing.T) {
	router := newTestRouter(false)

	rec := doRequest(t, router, http.MethodGet, "/feeds/aggregate?feeds="+feedAURL+","+feedBURL, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Count int              `json:"count"`
		Items []domain.Article `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 4, got.Count)

	// Recency order with source-prefixed titles; b-wire's noon story is
	// the newest.
	require.Equal(t, "[b-wire] Markets open flat", got.Items[0].Title)
	require.Equal(t, "b-wire", got.Items[0].Source)
}

func TestAggregateEmptyFeedList(t *testing.T) {
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/feeds/aggregate", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "empty_feed_list")
}

func TestAggregateRSSFormat(t *testing.T) {
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/feeds/aggregate?feeds="+feedAURL+"&format=rss", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/rss+xml", rec.Header().Get("Content-Type"))

	back := feed.Normalize(rec.Body.String())
	require.Equal(t, domain.KindRSS, back.Kind)
	require.Equal(t, "NewsPulse Aggregate", back.Title)
	require.Len(t, back.Items, 3)
}

func TestAnalyticsEndpoint(t *testing.T) {
	// No feeds parameter falls back to the configured roster.
	rec := doRequest(t, newTestRouter(false), http.MethodGet, "/feeds/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got usecase.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 4, got.Count)
	require.NotEmpty(t, got.Series)
	require.NotEmpty(t, got.Labeled)

	var spiked bool
	for _, b := range got.Labeled {
		if b.Label == "quake" {
			spiked = true
		}
	}
	require.True(t, spiked, "three quake titles in one hour must label a spike")
}

func TestAnnotateEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(true), http.MethodPost, "/narrative/annotate",
		`{"title":"Quake hits region","meta":{"source":"a-wire"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"note":"about Quake hits region"}`, rec.Body.String())

	rec = doRequest(t, newTestRouter(true), http.MethodPost, "/narrative/annotate", `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, newTestRouter(false), http.MethodPost, "/narrative/annotate", `{"title":"x"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "narrative_unconfigured")
}

func TestSelectForecastEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(true), http.MethodPost, "/narrative/select_forecast",
		`{"query":"earthquakes"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got usecase.SelectResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, []string{"quake"}, got.Phrases)
	require.Equal(t, 3, got.SelectedCount)
	require.Equal(t, "stable", got.Forecast.Narrative)
}
