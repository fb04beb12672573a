package feed

import (
	"regexp"

	"NewsPulse/internal/domain"
)

var (
	rssExpr  = regexp.MustCompile(`<rss[\s>]`)
	atomExpr = regexp.MustCompile(`<feed[\s>]`)
	rdfExpr  = regexp.MustCompile(`<rdf:RDF[\s>]`)
)

// Sniff classifies raw XML by structural signature. Checked in order
// rss, atom, rdf because the dialects can superficially overlap; first
// match wins.
func Sniff(xmlText string) domain.FeedKind {
	switch {
	case rssExpr.MatchString(xmlText):
		return domain.KindRSS
	case atomExpr.MatchString(xmlText):
		return domain.KindAtom
	case rdfExpr.MatchString(xmlText):
		return domain.KindRDF
	default:
		return domain.KindUnknown
	}
}

// ContentTypeFor maps a sniffed kind to the passthrough content type.
// Only rss and atom get a canonical type; rdf and unknown documents
// keep whatever the upstream sent.
func ContentTypeFor(kind domain.FeedKind, original string) string {
	switch kind {
	case domain.KindRSS:
		return "application/rss+xml"
	case domain.KindAtom:
		return "application/atom+xml"
	default:
		return original
	}
}
