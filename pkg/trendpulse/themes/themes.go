// Package themes assigns curated theme labels to free text via
// case-insensitive keyword dictionaries. Matches are independent: a title
// may carry zero, one, or several themes.
package themes

import (
	"strings"

	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

// Tagger matches text against per-theme keyword dictionaries.
type Tagger struct {
	order []report.Theme
	dicts map[report.Theme][]string // keywords, lowercased
}

// NewTagger creates an empty tagger.
func NewTagger() *Tagger {
	return &Tagger{dicts: make(map[report.Theme][]string)}
}

// NewDefaultTagger creates a tagger loaded with the built-in dictionaries.
func NewDefaultTagger() *Tagger {
	t := NewTagger()
	for _, d := range DefaultDictionaries() {
		t.AddTheme(d.Theme, d.Keywords)
	}
	return t
}

// AddTheme registers a theme with its keywords. Re-adding a theme replaces
// its keyword list.
func (t *Tagger) AddTheme(theme report.Theme, keywords []string) {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		normalized = append(normalized, kw)
	}
	if _, ok := t.dicts[theme]; !ok {
		t.order = append(t.order, theme)
	}
	t.dicts[theme] = normalized
}

// Tag returns every theme whose dictionary has at least one keyword
// appearing in the text (case-insensitive substring). Themes come back in
// registration order; an unmatched text yields nil.
func (t *Tagger) Tag(text string) []report.Theme {
	lower := strings.ToLower(text)
	var out []report.Theme
	for _, theme := range t.order {
		for _, kw := range t.dicts[theme] {
			if strings.Contains(lower, kw) {
				out = append(out, theme)
				break
			}
		}
	}
	return out
}

// Matches returns, per matching theme, the dictionary keywords found in
// the text. Themes with no hit are absent. The ingestion layer uses this to
// turn raw titles into a theme group's keyword sightings.
func (t *Tagger) Matches(text string) map[report.Theme][]string {
	lower := strings.ToLower(text)
	out := make(map[report.Theme][]string)
	for _, theme := range t.order {
		for _, kw := range t.dicts[theme] {
			if strings.Contains(lower, kw) {
				out[theme] = append(out[theme], kw)
			}
		}
	}
	return out
}

// Themes returns the registered themes in registration order.
func (t *Tagger) Themes() []report.Theme {
	return append([]report.Theme(nil), t.order...)
}

// Dictionary pairs a theme with its keyword list.
type Dictionary struct {
	Theme    report.Theme `yaml:"theme"`
	Keywords []string     `yaml:"keywords"`
}

// DefaultDictionaries covers the themes the stock feeds produce. Keywords
// mix Latin and CJK forms because the feeds do.
func DefaultDictionaries() []Dictionary {
	return []Dictionary{
		{Theme: report.ThemeFinance, Keywords: []string{
			"stock", "stocks", "shares", "ipo", "nasdaq", "s&p", "股市", "股票", "上市", "财报", "earnings", "markets",
		}},
		{Theme: report.ThemeEconomy, Keywords: []string{
			"inflation", "gdp", "recession", "tariff", "interest rate", "经济", "通胀", "关税", "就业", "央行", "美联储", "fed",
		}},
		{Theme: report.ThemeAI, Keywords: []string{
			"ai", "artificial intelligence", "llm", "gpt", "chatgpt", "openai", "model", "人工智能", "大模型", "智能体", "agent",
		}},
		{Theme: report.ThemeRobotics, Keywords: []string{
			"robot", "robotics", "humanoid", "drone", "机器人", "无人机", "自动驾驶", "autonomous",
		}},
		{Theme: report.ThemeTech, Keywords: []string{
			"chip", "semiconductor", "iphone", "android", "app", "software", "芯片", "半导体", "手机", "操作系统", "开源",
		}},
		{Theme: report.ThemeCrypto, Keywords: []string{
			"bitcoin", "btc", "ethereum", "crypto", "blockchain", "比特币", "以太坊", "加密货币", "区块链", "稳定币",
		}},
		{Theme: report.ThemeEnergy, Keywords: []string{
			"oil", "solar", "battery", "ev", "nuclear", "石油", "光伏", "电池", "新能源", "核电",
		}},
	}
}
