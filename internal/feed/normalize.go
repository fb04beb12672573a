package feed

import (
	"encoding/xml"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"NewsPulse/internal/domain"
)

// Normalize parses classified XML into a uniform article collection.
// It dispatches on the sniffed kind and absorbs the three overlapping
// dialect schemas without ever failing: malformed or unrecognized input
// degrades to an empty-but-valid result so a single bad feed cannot
// abort the pipeline.
func Normalize(xmlText string) domain.NormalizedFeed {
	switch Sniff(xmlText) {
	case domain.KindRSS:
		return normalizeRSS(xmlText)
	case domain.KindAtom:
		return normalizeAtom(xmlText)
	case domain.KindRDF:
		return normalizeRDF(xmlText)
	default:
		return domain.NormalizedFeed{Kind: domain.KindUnknown, Items: []domain.Article{}}
	}
}

func decode(xmlText string, out any) error {
	dec := xml.NewDecoder(strings.NewReader(xmlText))
	dec.CharsetReader = charset.NewReaderLabel
	return dec.Decode(out)
}

// textNode captures one element alongside its namespaced siblings of
// the same local name. An unqualified struct tag matches "link" and
// "atom:link" alike, and a plain string field would be overwritten by
// whichever comes last in document order, usually an attribute-only
// atom:link or media:title that wipes the extracted value. Collecting
// every match and picking lets the real element win.
type textNode struct {
	XMLName xml.Name
	Rel     string `xml:"rel,attr"`
	Href    string `xml:"href,attr"`
	Text    string `xml:",chardata"`
}

// pickText prefers the un-namespaced element's character data, then
// any element's.
func pickText(nodes []textNode) string {
	for _, n := range nodes {
		if n.XMLName.Space != "" {
			continue
		}
		if t := strings.TrimSpace(n.Text); t != "" {
			return t
		}
	}
	for _, n := range nodes {
		if t := strings.TrimSpace(n.Text); t != "" {
			return t
		}
	}
	return ""
}

// pickLink extends pickText with an href fallback for atom-style links
// that carry the URL as an attribute.
func pickLink(nodes []textNode) string {
	if t := pickText(nodes); t != "" {
		return t
	}
	for _, n := range nodes {
		if (n.Rel == "" || n.Rel == "alternate") && n.Href != "" {
			return strings.TrimSpace(n.Href)
		}
	}
	return ""
}

/* ---------- RSS 2.0 ---------- */

type rssDoc struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Titles []textNode `xml:"title"`
	Links  []textNode `xml:"link"`
	Items  []rssItem  `xml:"item"`
}

// Unqualified tag names match any namespace, so "date" also catches
// dc:date and "encoded" catches content:encoded.
type rssItem struct {
	Titles         []textNode `xml:"title"`
	Links          []textNode `xml:"link"`
	GUID           string     `xml:"guid"`
	PubDate        string     `xml:"pubDate"`
	DCDate         string     `xml:"date"`
	Descriptions   []textNode `xml:"description"`
	ContentEncoded string     `xml:"encoded"`
	Enclosure      mediaRef   `xml:"enclosure"`
	Thumbnails     []mediaRef `xml:"thumbnail"`
	MediaContents  []mediaRef `xml:"content"`
}

type mediaRef struct {
	URL string `xml:"url,attr"`
}

func normalizeRSS(xmlText string) domain.NormalizedFeed {
	var doc rssDoc
	if err := decode(xmlText, &doc); err != nil {
		return domain.NormalizedFeed{Kind: domain.KindRSS, Items: []domain.Article{}}
	}

	out := domain.NormalizedFeed{
		Kind:  domain.KindRSS,
		Title: pickText(doc.Channel.Titles),
		Link:  pickLink(doc.Channel.Links),
		Items: []domain.Article{},
	}

	for _, item := range doc.Channel.Items {
		url := pickLink(item.Links)
		if url == "" {
			url = strings.TrimSpace(item.GUID)
		}

		rawTime := firstNonEmpty(item.PubDate, item.DCDate)

		summary := firstNonEmpty(pickText(item.Descriptions), item.ContentEncoded)

		image := strings.TrimSpace(item.Enclosure.URL)
		if image == "" {
			image = firstRef(item.Thumbnails)
		}
		if image == "" {
			image = firstRef(item.MediaContents)
		}

		out.Items = appendArticle(out.Items, out.Title, pickText(item.Titles), url, rawTime, summary, image)
	}

	return out
}

/* ---------- Atom ---------- */

type atomDoc struct {
	Titles  []textNode  `xml:"title"`
	Links   []atomLink  `xml:"link"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type atomEntry struct {
	Titles    []textNode `xml:"title"`
	Links     []atomLink `xml:"link"`
	ID        string     `xml:"id"`
	Updated   string     `xml:"updated"`
	Published string     `xml:"published"`
	Summary   string     `xml:"summary"`
	Contents  []textNode `xml:"content"`
}

func normalizeAtom(xmlText string) domain.NormalizedFeed {
	var doc atomDoc
	if err := decode(xmlText, &doc); err != nil {
		return domain.NormalizedFeed{Kind: domain.KindAtom, Items: []domain.Article{}}
	}

	out := domain.NormalizedFeed{
		Kind:  domain.KindAtom,
		Title: pickText(doc.Titles),
		Link:  pickAtomLink(doc.Links),
		Items: []domain.Article{},
	}

	for _, entry := range doc.Entries {
		url := pickAtomLink(entry.Links)
		if url == "" {
			url = strings.TrimSpace(entry.ID)
		}

		rawTime := firstNonEmpty(entry.Updated, entry.Published)
		summary := firstNonEmpty(entry.Summary, pickText(entry.Contents))

		// Atom entries rarely carry a usable thumbnail; image stays empty.
		out.Items = appendArticle(out.Items, out.Title, pickText(entry.Titles), url, rawTime, summary, "")
	}

	return out
}

// pickAtomLink prefers a rel=alternate link with an href, else any href.
func pickAtomLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" && l.Href != "" {
			return strings.TrimSpace(l.Href)
		}
	}
	for _, l := range links {
		if l.Href != "" {
			return strings.TrimSpace(l.Href)
		}
	}
	return ""
}

/* ---------- RDF / RSS 1.0 ---------- */

type rdfDoc struct {
	Channel rdfChannel `xml:"channel"`
	Items   []rdfItem  `xml:"item"`
}

type rdfChannel struct {
	Titles []textNode `xml:"title"`
	Links  []textNode `xml:"link"`
}

type rdfItem struct {
	Titles       []textNode `xml:"title"`
	Links        []textNode `xml:"link"`
	Date         string     `xml:"date"`
	PubDate      string     `xml:"pubDate"`
	Descriptions []textNode `xml:"description"`
}

func normalizeRDF(xmlText string) domain.NormalizedFeed {
	var doc rdfDoc
	if err := decode(xmlText, &doc); err != nil {
		return domain.NormalizedFeed{Kind: domain.KindRDF, Items: []domain.Article{}}
	}

	out := domain.NormalizedFeed{
		Kind:  domain.KindRDF,
		Title: pickText(doc.Channel.Titles),
		Link:  pickLink(doc.Channel.Links),
		Items: []domain.Article{},
	}

	for _, item := range doc.Items {
		rawTime := firstNonEmpty(item.Date, item.PubDate)
		out.Items = appendArticle(out.Items, out.Title, pickText(item.Titles), pickLink(item.Links), rawTime, pickText(item.Descriptions), "")
	}

	return out
}

/* ---------- shared coercion ---------- */

// appendArticle coerces extracted scalars into a canonical Article and
// drops rows that carry neither title nor url.
func appendArticle(items []domain.Article, source, title, url, rawTime, summary, image string) []domain.Article {
	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)
	if title == "" && url == "" {
		return items
	}

	iso, ts := ParseWhen(rawTime)

	return append(items, domain.Article{
		Title:         title,
		URL:           url,
		Time:          iso,
		Summary:       StripHTML(summary),
		Image:         image,
		Source:        source,
		DedupKey:      domain.BuildDedupKey(title, url),
		SortTimestamp: ts,
	})
}

// StripHTML reduces markup-laden descriptions to plain text.
func StripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstRef(refs []mediaRef) string {
	for _, r := range refs {
		if url := strings.TrimSpace(r.URL); url != "" {
			return url
		}
	}
	return ""
}
