package feed

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	jstExpr      = regexp.MustCompile(`(?i)\bJST\b`)
	bareExpr     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(:\d{2})?$`)
	numericExpr  = regexp.MustCompile(`^\d+$`)
	secondsBound = int64(1e12)
)

// ParseWhen resolves a dialect-specific raw date (RFC822 pubDate, Atom
// updated/published, RDF dc:date, bare local stamps, epoch numbers) to a
// canonical ISO-8601 UTC string and epoch milliseconds. Unresolvable
// input yields an empty string and 0 — dates are never invented.
func ParseWhen(raw string) (string, int64) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", 0
	}

	// Japanese feeds occasionally stamp "JST" which no layout knows.
	if jstExpr.MatchString(s) {
		s = jstExpr.ReplaceAllString(s, "+0900")
	}

	// "2006-01-02 15:04[:05]" without a zone is treated as UTC.
	if bareExpr.MatchString(s) {
		s = strings.Replace(s, " ", "T", 1) + "Z"
	}

	if numericExpr.MatchString(s) {
		if t, ok := fromEpoch(s); ok {
			return t.UTC().Format(time.RFC3339), t.UnixMilli()
		}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return "", 0
	}
	return t.UTC().Format(time.RFC3339), t.UnixMilli()
}

func fromEpoch(s string) (time.Time, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	if n < secondsBound {
		n *= 1000
	}
	return time.UnixMilli(n), true
}
