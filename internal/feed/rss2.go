package feed

import (
	"net/http"
	"strings"
	"time"

	"NewsPulse/internal/domain"
)

// escapeText replaces only &, < and > — not quotes or apostrophes.
// Existing consumers depend on this partial escaping; see DESIGN.md.
var escapeText = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// WriteRSS2 renders a normalized article collection back into RSS 2.0
// XML for republishing. pubDate is emitted only when the item's time
// parses; enclosures only when an image URL is present, always typed
// image/jpeg regardless of the actual format.
func WriteRSS2(f domain.NormalizedFeed) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss version="2.0">` + "\n<channel>\n")
	b.WriteString("<title>" + escapeText.Replace(f.Title) + "</title>\n")
	b.WriteString("<link>" + escapeText.Replace(f.Link) + "</link>\n")
	b.WriteString("<description>" + escapeText.Replace(f.Title) + "</description>\n")

	for _, item := range f.Items {
		b.WriteString("<item>\n")
		b.WriteString("<title>" + escapeText.Replace(item.Title) + "</title>\n")
		b.WriteString("<link>" + escapeText.Replace(item.URL) + "</link>\n")
		b.WriteString("<description>" + escapeText.Replace(item.Summary) + "</description>\n")

		if ts, err := time.Parse(time.RFC3339, item.Time); err == nil {
			b.WriteString("<pubDate>" + ts.UTC().Format(http.TimeFormat) + "</pubDate>\n")
		}

		if item.Image != "" {
			b.WriteString(`<enclosure url="` + escapeText.Replace(item.Image) + `" type="image/jpeg"/>` + "\n")
		}

		b.WriteString("</item>\n")
	}

	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}
