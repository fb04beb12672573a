package analytics

import (
	"regexp"
	"strings"

	"NewsPulse/internal/ports"
)

var tokenExpr = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {},
	"that": {}, "this": {}, "was": {}, "are": {}, "you": {},
	"your": {}, "our": {}, "nhk": {}, "bbc": {}, "reuters": {},
}

// TitleKeywords is the crude default keyword extractor: lowercase
// alphanumeric tokens of a minimum length, stopwords removed, capped to
// the first few tokens per title. Deliberately not NLP; swap the
// implementation behind ports.KeywordExtractor for anything smarter.
type TitleKeywords struct {
	MinLength int
	Cap       int
}

var _ ports.KeywordExtractor = (*TitleKeywords)(nil)

// NewTitleKeywords applies the historical defaults (length 3, cap 3).
func NewTitleKeywords(minLength, cap int) *TitleKeywords {
	if minLength <= 0 {
		minLength = 3
	}
	if cap <= 0 {
		cap = 3
	}
	return &TitleKeywords{MinLength: minLength, Cap: cap}
}

// Extract returns candidate keywords from a title, in title order.
func (t *TitleKeywords) Extract(title string) []string {
	tokens := tokenExpr.FindAllString(strings.ToLower(title), -1)

	keywords := make([]string, 0, t.Cap)
	for _, token := range tokens {
		if len(token) < t.MinLength {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		keywords = append(keywords, token)
		if len(keywords) == t.Cap {
			break
		}
	}
	return keywords
}
