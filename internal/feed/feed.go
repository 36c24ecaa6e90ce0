// Package feed turns live RSS feeds into a daily trends report: fetch each
// configured source, strip HTML out of titles, tag themes, and assemble the
// per-theme groups the comparison engine consumes.
package feed

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/trendops/trendpulse/pkg/trendpulse/report"
	"github.com/trendops/trendpulse/pkg/trendpulse/textnorm"
	"github.com/trendops/trendpulse/pkg/trendpulse/themes"
)

// Source is one RSS feed to pull.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// DefaultSources is the stock feed list.
func DefaultSources() []Source {
	return []Source{
		{Name: "Hacker News", URL: "https://news.ycombinator.com/rss"},
		{Name: "V2EX", URL: "https://www.v2ex.com/index.xml"},
		{Name: "36氪", URL: "https://36kr.com/feed"},
		{Name: "少数派", URL: "https://sspai.com/feed"},
		{Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
		{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
	}
}

// LoadSources reads a feed list from a YAML file.
//
// Expected format:
//
//	sources:
//	  - name: Hacker News
//	    url: https://news.ycombinator.com/rss
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return cfg.Sources, nil
}

// itemsPerSource caps how many entries one feed contributes to a day.
const itemsPerSource = 20

// Fetcher pulls sources and builds report snapshots.
type Fetcher struct {
	parser *gofeed.Parser
	tagger *themes.Tagger
}

// New creates a fetcher tagging cards with the given tagger.
func New(tagger *themes.Tagger) *Fetcher {
	return &Fetcher{parser: gofeed.NewParser(), tagger: tagger}
}

// BuildReport fetches every source and assembles the day's report. A source
// that fails to fetch or parse is logged and skipped; the report is built
// from whatever arrived.
func (f *Fetcher) BuildReport(ctx context.Context, dayKey string, sources []Source) report.TrendsReport {
	type themed struct {
		keywords []string
		cards    []report.TrendCard
	}
	groups := make(map[report.Theme]*themed)
	var themeOrder []report.Theme

	for _, src := range sources {
		feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
		if err != nil {
			log.Printf("fetch %s: %v", src.Name, err)
			continue
		}

		items := feed.Items
		if len(items) > itemsPerSource {
			items = items[:itemsPerSource]
		}
		for rank, item := range items {
			title := strings.TrimSpace(StripHTML(item.Title))
			if title == "" {
				continue
			}

			card := report.TrendCard{
				ID:       textnorm.StableID(title),
				Source:   SourceID(src.Name),
				Title:    title,
				Language: textnorm.DetectLanguage(title),
				// Earlier feed positions carry more editorial weight.
				Signals: report.Signals{Score: float64(len(items) - rank)},
			}

			matches := f.tagger.Matches(title)
			if len(matches) == 0 {
				continue
			}
			for theme := range matches {
				card.Themes = append(card.Themes, string(theme))
			}
			sort.Strings(card.Themes)

			for theme, keywords := range matches {
				g := groups[theme]
				if g == nil {
					g = &themed{}
					groups[theme] = g
					themeOrder = append(themeOrder, theme)
				}
				g.keywords = append(g.keywords, keywords...)
				g.cards = append(g.cards, card)
			}
		}
	}

	sort.Slice(themeOrder, func(i, j int) bool { return themeOrder[i] < themeOrder[j] })

	out := report.TrendsReport{DayKey: dayKey}
	for _, theme := range themeOrder {
		g := groups[theme]
		out.TrendsByTheme = append(out.TrendsByTheme, report.ThemeGroup{
			Theme:    theme,
			Keywords: g.keywords,
			Cards:    g.cards,
		})
	}
	return out
}

// DayKey formats a time as the store's day key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SourceID turns a display name into a stable source identifier:
// "Hacker News" -> "hacker_news".
func SourceID(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripHTML drops markup and returns the text content. Malformed fragments
// fall back to the raw input: feed titles are untrusted, a bad one should
// never sink the whole fetch.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}
