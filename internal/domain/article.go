package domain

import "strings"

// FeedKind identifies the syndication dialect of a raw XML document.
type FeedKind string

const (
	KindRSS     FeedKind = "rss"
	KindAtom    FeedKind = "atom"
	KindRDF     FeedKind = "rdf"
	KindUnknown FeedKind = "unknown"
)

// Article is the canonical unit every dialect normalizes into.
// Every article surfaced downstream has a non-empty Title or URL.
type Article struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Time    string `json:"time"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
	Source  string `json:"source"`

	// DedupKey is lowercase "title|url", computed identically for every
	// dialect so cross-feed deduplication works. Not globally unique when
	// title+url collide across genuinely distinct items.
	DedupKey string `json:"dedupKey"`

	// SortTimestamp is epoch milliseconds parsed from Time, or 0 when the
	// source date was unparseable. Used only for ordering.
	SortTimestamp int64 `json:"sortTimestamp"`
}

// BuildDedupKey derives the identity key shared by all dialects.
func BuildDedupKey(title, url string) string {
	return strings.ToLower(title + "|" + url)
}

// NormalizedFeed is the result of parsing one feed document.
type NormalizedFeed struct {
	Kind  FeedKind  `json:"type"`
	Title string    `json:"title"`
	Link  string    `json:"link"`
	Items []Article `json:"items"`
}

// RawFeedResponse is the fetcher's cached unit, keyed by source URL and
// superseded after the freshness window.
type RawFeedResponse struct {
	FetchedAtMs int64
	Body        string
	ContentType string
}
