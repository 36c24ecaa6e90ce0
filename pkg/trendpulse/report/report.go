// Package report defines the daily trend-report data model consumed by the
// comparison engine. Reports are produced by an external ingestion layer and
// are treated as immutable snapshots once built.
package report

// Theme labels a keyword group. Values are open-ended; the constants below
// cover the curated dictionaries shipped with the engine.
type Theme string

const (
	ThemeFinance  Theme = "finance"
	ThemeEconomy  Theme = "economy"
	ThemeAI       Theme = "ai"
	ThemeRobotics Theme = "robotics"
	ThemeTech     Theme = "tech"
	ThemeCrypto   Theme = "crypto"
	ThemeEnergy   Theme = "energy"
)

// Signals carries per-card ranking data from the source feed.
// A missing score is simply zero.
type Signals struct {
	Score float64 `json:"score"`
}

// TrendCard is one source item (headline, post, search entry) attached to a
// theme group.
type TrendCard struct {
	ID       string   `json:"id"`
	Source   string   `json:"source"`
	Title    string   `json:"title"`
	Language string   `json:"language,omitempty"`
	Themes   []string `json:"themes,omitempty"`
	Signals  Signals  `json:"signals"`
}

// ThemeGroup is one themed slice of a day's report. Keywords keep their
// discovery order and may repeat; both Keywords and Cards may be empty.
type ThemeGroup struct {
	Theme    Theme       `json:"theme"`
	Keywords []string    `json:"keywords,omitempty"`
	Cards    []TrendCard `json:"cards,omitempty"`
}

// TrendsReport is one day's snapshot. DayKey is unique per day
// (e.g. "2026-08-28").
type TrendsReport struct {
	DayKey        string       `json:"day_key"`
	TrendsByTheme []ThemeGroup `json:"trends_by_theme,omitempty"`
}

// Themes returns the distinct themes present in the report, in first-seen
// order.
func (r *TrendsReport) Themes() []Theme {
	seen := make(map[Theme]struct{}, len(r.TrendsByTheme))
	var out []Theme
	for _, g := range r.TrendsByTheme {
		if _, ok := seen[g.Theme]; ok {
			continue
		}
		seen[g.Theme] = struct{}{}
		out = append(out, g.Theme)
	}
	return out
}

// GroupsFor returns every group in the report carrying the given theme.
// A report normally has one group per theme, but merged or hand-built
// reports may carry several.
func (r *TrendsReport) GroupsFor(theme Theme) []ThemeGroup {
	var out []ThemeGroup
	for _, g := range r.TrendsByTheme {
		if g.Theme == theme {
			out = append(out, g)
		}
	}
	return out
}
