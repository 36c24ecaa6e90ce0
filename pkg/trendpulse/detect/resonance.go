package detect

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trendops/trendpulse/pkg/trendpulse/alias"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
	"github.com/trendops/trendpulse/pkg/trendpulse/textnorm"
)

// Resonance is one keyword independently corroborated by at least two
// distinct sources on the same day.
type Resonance struct {
	Theme     report.Theme `json:"theme"`
	Keyword   string       `json:"keyword"`
	Canonical string       `json:"canonical"`
	Sources   []string     `json:"sources"`
}

// Resonances scans today's report only. A source supports a keyword when
// the card's normalized title contains any of the keyword's known variants
// as a substring; exact token boundaries are deliberately not required so
// CJK titles (no word breaks) match. Entries are sorted by source count
// descending, then keyword ascending under Unicode collation.
func Resonances(today *report.TrendsReport, m *alias.Matcher) []Resonance {
	if today == nil {
		return nil
	}

	freqs := dayFrequencies(today, m)

	// Normalized titles grouped per theme, each with its source.
	type cardText struct {
		source string
		title  string
	}
	cardsByTheme := make(map[report.Theme][]cardText)
	for _, g := range today.TrendsByTheme {
		for _, c := range g.Cards {
			if c.Source == "" {
				continue
			}
			title := textnorm.Normalize(c.Title)
			if title == "" {
				continue
			}
			cardsByTheme[g.Theme] = append(cardsByTheme[g.Theme], cardText{source: c.Source, title: title})
		}
	}

	var out []Resonance
	for _, theme := range today.Themes() {
		f := freqs[theme]
		cards := cardsByTheme[theme]
		if f == nil || len(cards) == 0 {
			continue
		}

		canonicals := make([]string, 0, len(f.counts))
		for c := range f.counts {
			canonicals = append(canonicals, c)
		}
		sort.Strings(canonicals)

		for _, canonical := range canonicals {
			variants := make([]string, 0, 4)
			for _, v := range m.Variants(canonical) {
				if nv := textnorm.Normalize(v); nv != "" {
					variants = append(variants, nv)
				}
			}
			if len(variants) == 0 {
				continue
			}

			supporting := make(map[string]struct{})
			for _, card := range cards {
				for _, v := range variants {
					if strings.Contains(card.title, v) {
						supporting[card.source] = struct{}{}
						break
					}
				}
			}
			if len(supporting) < 2 {
				continue
			}

			sources := make([]string, 0, len(supporting))
			for s := range supporting {
				sources = append(sources, s)
			}
			sort.Strings(sources)

			out = append(out, Resonance{
				Theme:     theme,
				Keyword:   m.PickDisplay(canonical, f.candidates[canonical]),
				Canonical: canonical,
				Sources:   sources,
			})
		}
	}

	coll := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Sources) != len(out[j].Sources) {
			return len(out[i].Sources) > len(out[j].Sources)
		}
		return coll.CompareString(out[i].Keyword, out[j].Keyword) < 0
	})
	return out
}
