package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/feed"
	"NewsPulse/internal/usecase"
)

// Server exposes the feed pipeline over HTTP.
type Server struct {
	log       *slog.Logger
	pipeline  *usecase.Pipeline
	selector  *usecase.Selector
	feeds     []usecase.FeedRef
	binWidth  time.Duration
	threshold float64
}

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Logger    *slog.Logger
	Pipeline  *usecase.Pipeline
	Selector  *usecase.Selector
	Feeds     []usecase.FeedRef
	BinWidth  time.Duration
	Threshold float64
}

// New wires handlers with their collaborators.
func New(deps Deps) *Server {
	return &Server{
		log:       deps.Logger,
		pipeline:  deps.Pipeline,
		selector:  deps.Selector,
		feeds:     deps.Feeds,
		binWidth:  deps.BinWidth,
		threshold: deps.Threshold,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/feed/raw", s.handleRaw)
	r.Get("/feed/normalized", s.handleNormalized)
	r.Get("/feed/republish", s.handleRepublish)
	r.Get("/feeds/aggregate", s.handleAggregate)
	r.Get("/feeds/analytics", s.handleAnalytics)
	r.Post("/narrative/annotate", s.handleAnnotate)
	r.Post("/narrative/select_forecast", s.handleSelectForecast)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRaw passes the fetched XML through with a content type derived
// from the sniffed kind.
func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing_url")
		return
	}

	raw, err := s.pipeline.Raw(r.Context(), url)
	if err != nil {
		s.writeFetchError(w, url, err)
		return
	}

	w.Header().Set("Content-Type", feed.ContentTypeFor(feed.Sniff(raw.Body), raw.ContentType))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(raw.Body))
}

func (s *Server) handleNormalized(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing_url")
		return
	}

	normalized, err := s.pipeline.Normalized(r.Context(), url)
	if err != nil {
		s.writeFetchError(w, url, err)
		return
	}

	writeJSON(w, http.StatusOK, normalized)
}

func (s *Server) handleRepublish(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing_url")
		return
	}

	normalized, err := s.pipeline.Normalized(r.Context(), url)
	if err != nil {
		s.writeFetchError(w, url, err)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed.WriteRSS2(normalized)))
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	refs := s.refsFromQuery(r.URL.Query().Get("feeds"))

	merged, err := s.pipeline.Aggregate(r.Context(), refs)
	if err != nil {
		if errors.Is(err, feed.ErrEmptyFeedList) {
			writeError(w, http.StatusBadRequest, "empty_feed_list")
			return
		}
		writeError(w, http.StatusInternalServerError, "aggregate_failed")
		return
	}

	items := usecase.PrefixSources(merged)

	if r.URL.Query().Get("format") == "rss" {
		out := domain.NormalizedFeed{
			Kind:  domain.KindRSS,
			Title: "NewsPulse Aggregate",
			Items: items,
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(feed.WriteRSS2(out)))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	refs := s.refsFromQuery(r.URL.Query().Get("feeds"))
	if len(refs) == 0 {
		refs = s.feeds
	}

	binWidth := s.binWidth
	if v, err := strconv.Atoi(r.URL.Query().Get("bin")); err == nil && v > 0 {
		binWidth = time.Duration(v) * time.Minute
	}

	threshold := s.threshold
	if v, err := strconv.ParseFloat(r.URL.Query().Get("threshold"), 64); err == nil && v > 0 {
		threshold = v
	}

	merged, err := s.pipeline.Aggregate(r.Context(), refs)
	if err != nil {
		if errors.Is(err, feed.ErrEmptyFeedList) {
			writeError(w, http.StatusBadRequest, "empty_feed_list")
			return
		}
		writeError(w, http.StatusInternalServerError, "aggregate_failed")
		return
	}

	writeJSON(w, http.StatusOK, s.pipeline.Analyze(merged, binWidth, threshold))
}

type annotateRequest struct {
	Title string             `json:"title"`
	Meta  domain.CompactItem `json:"meta"`
}

func (s *Server) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	if s.selector == nil {
		writeError(w, http.StatusServiceUnavailable, "narrative_unconfigured")
		return
	}

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	note, err := s.selector.Annotate(r.Context(), req.Title, req.Meta)
	if err != nil {
		s.log.Warn("annotate failed", "title", req.Title, "error", err)
		writeError(w, http.StatusBadGateway, "narrative_failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"note": note})
}

type selectForecastRequest struct {
	Query string `json:"query"`
	Feeds string `json:"feeds,omitempty"`
}

func (s *Server) handleSelectForecast(w http.ResponseWriter, r *http.Request) {
	if s.selector == nil {
		writeError(w, http.StatusServiceUnavailable, "narrative_unconfigured")
		return
	}

	var req selectForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	refs := s.refsFromQuery(req.Feeds)
	if len(refs) == 0 {
		refs = s.feeds
	}

	merged, err := s.pipeline.Aggregate(r.Context(), refs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "aggregate_failed")
		return
	}

	result, err := s.selector.SelectAndForecast(r.Context(), req.Query, merged)
	if err != nil {
		s.log.Warn("select forecast failed", "error", err)
		writeError(w, http.StatusBadGateway, "narrative_failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// refsFromQuery splits a comma-separated feed list, resolving source
// names from the configured roster when the URL is known.
func (s *Server) refsFromQuery(raw string) []usecase.FeedRef {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	known := make(map[string]string, len(s.feeds))
	for _, ref := range s.feeds {
		known[ref.URL] = ref.Source
	}

	var refs []usecase.FeedRef
	for _, part := range strings.Split(raw, ",") {
		url := strings.TrimSpace(part)
		if url == "" {
			continue
		}
		refs = append(refs, usecase.FeedRef{Source: known[url], URL: url})
	}
	return refs
}

func (s *Server) writeFetchError(w http.ResponseWriter, url string, err error) {
	var fetchErr *feed.FetchError
	if errors.As(err, &fetchErr) {
		s.log.Warn("upstream fetch failed", "url", url, "status", fetchErr.Status)
		writeError(w, http.StatusBadGateway, "upstream_error")
		return
	}
	s.log.Error("fetch failed", "url", url, "error", err)
	writeError(w, http.StatusInternalServerError, "fetch_failed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
