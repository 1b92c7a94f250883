package scraper

import (
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"

	"scout/scout/utils/logging"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	articleSelectors = []string{
		"article", ".article", ".post", ".story", ".content-item",
		"[class*='article']", "[class*='post']", "[class*='story']",
	}
	titleSelectors   = []string{"h1", "h2", "h3", ".title", ".headline", "[class*='title']", "[class*='headline']"}
	summarySelectors = []string{".summary", ".excerpt", ".description", ".content", "p", "[class*='summary']", "[class*='excerpt']"}
	dateSelectors    = []string{".date", ".time", ".published", "[datetime]", "[class*='date']", "[class*='time']"}
)

const maxSummaryChars = 300

type Link struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Article struct {
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Summary string `json:"summary,omitempty"`
	Date    string `json:"date,omitempty"`
	Image   string `json:"image,omitempty"`
}

type Metadata struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Keywords    string            `json:"keywords,omitempty"`
	OpenGraph   map[string]string `json:"open_graph,omitempty"`
	Twitter     map[string]string `json:"twitter,omitempty"`
}

type Microdata struct {
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties"`
}

type StructuredData struct {
	JSONLD    []any       `json:"json_ld"`
	Microdata []Microdata `json:"microdata"`
}

// PageAnalysis is a model-free summary of a rendered page.
type PageAnalysis struct {
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	ContentLength  int            `json:"content_length"`
	WordCount      int            `json:"word_count"`
	Metadata       Metadata       `json:"metadata"`
	Headlines      []string       `json:"headlines"`
	Links          []Link         `json:"links"`
	Articles       []Article      `json:"articles"`
	StructuredData StructuredData `json:"structured_data"`
}

// Analyze parses html and runs every heuristic against it. Relative links
// are resolved against pageURL.
func Analyze(html, pageURL string) (*PageAnalysis, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}
	base, _ := url.Parse(pageURL)

	meta := ExtractMetadata(doc)
	a := &PageAnalysis{
		URL:            pageURL,
		Title:          meta.Title,
		Description:    meta.Description,
		ContentLength:  len(html),
		WordCount:      WordCount(CleanText(html)),
		Metadata:       meta,
		Headlines:      ExtractHeadlines(doc),
		Links:          ExtractLinks(doc, base),
		Articles:       ExtractArticles(doc, base),
		StructuredData: ExtractStructuredData(doc),
	}
	logging.AppLogger.Info("Analyzed page",
		zap.String("url", pageURL),
		zap.Int("headlines", len(a.Headlines)),
		zap.Int("links", len(a.Links)),
		zap.Int("articles", len(a.Articles)),
	)
	return a, nil
}

func ExtractMetadata(doc *goquery.Document) Metadata {
	m := Metadata{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: attr(doc.Find(`meta[name="description"]`).First(), "content"),
		Keywords:    attr(doc.Find(`meta[name="keywords"]`).First(), "content"),
	}
	doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		if m.OpenGraph == nil {
			m.OpenGraph = map[string]string{}
		}
		m.OpenGraph[strings.TrimPrefix(attr(s, "property"), "og:")] = attr(s, "content")
	})
	doc.Find(`meta[name^="twitter:"]`).Each(func(_ int, s *goquery.Selection) {
		if m.Twitter == nil {
			m.Twitter = map[string]string{}
		}
		m.Twitter[strings.TrimPrefix(attr(s, "name"), "twitter:")] = attr(s, "content")
	})
	return m
}

// ExtractHeadlines returns h1-h4 texts longer than ten characters.
func ExtractHeadlines(doc *goquery.Document) []string {
	headlines := []string{}
	doc.Find("h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		if text := squash(s.Text()); utf8.RuneCountInString(text) > 10 {
			headlines = append(headlines, text)
		}
	})
	return headlines
}

// ExtractLinks returns anchors that have both an href and visible text.
func ExtractLinks(doc *goquery.Document, base *url.URL) []Link {
	links := []Link{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := attr(s, "href")
		text := squash(s.Text())
		if href == "" || text == "" {
			return
		}
		links = append(links, Link{Text: text, URL: resolve(base, href), Title: attr(s, "title")})
	})
	return links
}

// ExtractArticles finds article-like containers and keeps those with at
// least a title or a link.
func ExtractArticles(doc *goquery.Document, base *url.URL) []Article {
	var containers []*goquery.Selection
	for _, sel := range articleSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			containers = append(containers, s)
		})
	}
	if len(containers) == 0 {
		doc.Find("div[class], section[class]").Each(func(_ int, s *goquery.Selection) {
			class := strings.ToLower(attr(s, "class"))
			for _, k := range []string{"article", "post", "story", "content"} {
				if strings.Contains(class, k) {
					containers = append(containers, s)
					return
				}
			}
		})
	}

	articles := []Article{}
	for _, s := range containers {
		a := Article{
			Title:   articleTitle(s),
			Link:    articleLink(s, base),
			Summary: articleSummary(s),
			Date:    articleDate(s),
			Image:   articleImage(s, base),
		}
		if a.Title != "" || a.Link != "" {
			articles = append(articles, a)
		}
	}
	return articles
}

func articleTitle(s *goquery.Selection) string {
	var title string
	s.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if text := squash(h.Text()); utf8.RuneCountInString(text) > 5 {
			title = text
			return false
		}
		return true
	})
	if title != "" {
		return title
	}
	for _, sel := range titleSelectors {
		if text := squash(s.Find(sel).First().Text()); utf8.RuneCountInString(text) > 5 {
			return text
		}
	}
	return ""
}

func articleLink(s *goquery.Selection, base *url.URL) string {
	if href := attr(s.Find("a[href]").First(), "href"); href != "" {
		return resolve(base, href)
	}
	if goquery.NodeName(s) == "a" {
		if href := attr(s, "href"); href != "" {
			return resolve(base, href)
		}
	}
	return ""
}

func articleSummary(s *goquery.Selection) string {
	for _, sel := range summarySelectors {
		if text := squash(s.Find(sel).First().Text()); utf8.RuneCountInString(text) > 20 {
			return clip(text, maxSummaryChars)
		}
	}
	var summary string
	s.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := squash(p.Text()); utf8.RuneCountInString(text) > 50 {
			summary = clip(text, maxSummaryChars)
			return false
		}
		return true
	})
	return summary
}

func articleDate(s *goquery.Selection) string {
	for _, sel := range dateSelectors {
		el := s.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if dt := attr(el, "datetime"); dt != "" {
			return dt
		}
		if text := squash(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

func articleImage(s *goquery.Selection, base *url.URL) string {
	if src := attr(s.Find("img[src]").First(), "src"); src != "" {
		return resolve(base, src)
	}
	return ""
}

// ExtractStructuredData collects JSON-LD blocks and microdata items.
func ExtractStructuredData(doc *goquery.Document) StructuredData {
	out := StructuredData{JSONLD: []any{}, Microdata: []Microdata{}}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return
		}
		if list, ok := v.([]any); ok {
			out.JSONLD = append(out.JSONLD, list...)
			return
		}
		out.JSONLD = append(out.JSONLD, v)
	})
	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		md := Microdata{Type: attr(s, "itemtype"), Properties: map[string]string{}}
		if md.Type == "" {
			return
		}
		s.Find("[itemprop]").Each(func(_ int, p *goquery.Selection) {
			value := attr(p, "content")
			if value == "" {
				value = squash(p.Text())
			}
			if name := attr(p, "itemprop"); name != "" && value != "" {
				md.Properties[name] = value
			}
		})
		if len(md.Properties) > 0 {
			out.Microdata = append(out.Microdata, md)
		}
	})
	return out
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func resolve(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
