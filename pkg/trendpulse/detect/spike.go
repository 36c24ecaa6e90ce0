// Package detect finds day-over-day keyword anomalies in a window of trend
// reports: spikes (frequency far above the trailing baseline) and resonance
// (the same keyword corroborated by several independent sources on one day).
//
// All functions are pure and deterministic over their inputs; malformed
// groups (missing keywords or cards) read as empty and never fail a run.
package detect

import (
	"math"
	"sort"

	"github.com/trendops/trendpulse/pkg/trendpulse/alias"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

// Window bounds for the trailing baseline, in daily reports.
const (
	MinWindowDays = 2
	MaxWindowDays = 14
)

const (
	// spikeRatio is the minimum today/baseline ratio that counts as a spike.
	spikeRatio = 2.2

	// prevAvgFloor keeps the ratio denominator away from zero: a keyword
	// never seen before is capped at today/0.5 instead of dividing by zero.
	prevAvgFloor = 0.5
)

// ClampWindow clamps a requested window length to [MinWindowDays, MaxWindowDays].
func ClampWindow(days int) int {
	if days < MinWindowDays {
		return MinWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}

// Spike is one keyword whose same-day frequency greatly exceeds its
// trailing-window average.
type Spike struct {
	Theme      report.Theme `json:"theme"`
	Keyword    string       `json:"keyword"`
	Canonical  string       `json:"canonical"`
	TodayCount int          `json:"today_count"`
	PrevAvg    float64      `json:"prev_avg"`
	Ratio      float64      `json:"ratio"`
}

// KeywordCount is one canonical keyword's same-day frequency with its chosen
// display form.
type KeywordCount struct {
	Keyword   string `json:"keyword"`
	Canonical string `json:"canonical"`
	Count     int    `json:"count"`
}

// themeFreq aggregates one theme's keyword sightings for a single day:
// canonical -> count plus the raw display forms observed.
type themeFreq struct {
	counts     map[string]int
	candidates map[string][]string
}

func newThemeFreq() *themeFreq {
	return &themeFreq{
		counts:     make(map[string]int),
		candidates: make(map[string][]string),
	}
}

func (f *themeFreq) add(raw string, m *alias.Matcher) {
	canonical := m.Canonicalize(raw)
	if canonical == "" {
		return
	}
	f.counts[canonical]++
	f.candidates[canonical] = append(f.candidates[canonical], raw)
}

// dayFrequencies builds per-theme frequency maps for one report.
func dayFrequencies(r *report.TrendsReport, m *alias.Matcher) map[report.Theme]*themeFreq {
	freqs := make(map[report.Theme]*themeFreq)
	for _, g := range r.TrendsByTheme {
		f := freqs[g.Theme]
		if f == nil {
			f = newThemeFreq()
			freqs[g.Theme] = f
		}
		for _, kw := range g.Keywords {
			f.add(kw, m)
		}
	}
	return freqs
}

// Spikes scans a newest-first window of reports and returns every keyword
// seen today whose frequency is at least spikeRatio times its trailing
// average. The caller slices the window; prior days are window[1:]. Results
// are sorted by ratio descending, ties by today's count descending then
// keyword ascending.
func Spikes(window []report.TrendsReport, m *alias.Matcher) []Spike {
	if len(window) == 0 {
		return nil
	}
	today := &window[0]
	priorDays := len(window) - 1

	todayFreqs := dayFrequencies(today, m)

	// Trailing baseline: per theme, canonical counts summed across all
	// prior days in the window.
	prevTotals := make(map[report.Theme]map[string]int)
	for i := 1; i < len(window); i++ {
		for theme, f := range dayFrequencies(&window[i], m) {
			totals := prevTotals[theme]
			if totals == nil {
				totals = make(map[string]int)
				prevTotals[theme] = totals
			}
			for canonical, n := range f.counts {
				totals[canonical] += n
			}
		}
	}

	var spikes []Spike
	for _, theme := range today.Themes() {
		f := todayFreqs[theme]
		if f == nil {
			continue
		}

		canonicals := make([]string, 0, len(f.counts))
		for c := range f.counts {
			canonicals = append(canonicals, c)
		}
		sort.Strings(canonicals)

		for _, canonical := range canonicals {
			todayCount := f.counts[canonical]
			if todayCount < 1 {
				continue
			}

			prevAvg := 0.0
			if priorDays > 0 {
				prevAvg = float64(prevTotals[theme][canonical]) / float64(priorDays)
			}
			denom := math.Max(prevAvgFloor, prevAvg)
			ratio := float64(todayCount) / denom
			if ratio < spikeRatio {
				continue
			}

			spikes = append(spikes, Spike{
				Theme:      theme,
				Keyword:    m.PickDisplay(canonical, f.candidates[canonical]),
				Canonical:  canonical,
				TodayCount: todayCount,
				PrevAvg:    round2(prevAvg),
				Ratio:      round2(ratio),
			})
		}
	}

	sort.SliceStable(spikes, func(i, j int) bool {
		a, b := spikes[i], spikes[j]
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		if a.TodayCount != b.TodayCount {
			return a.TodayCount > b.TodayCount
		}
		return a.Keyword < b.Keyword
	})
	return spikes
}

// TopKeywords ranks today's keywords per theme by frequency descending,
// ties by keyword ascending. Used for the per-theme projections of the
// compare result.
func TopKeywords(today *report.TrendsReport, m *alias.Matcher) map[report.Theme][]KeywordCount {
	out := make(map[report.Theme][]KeywordCount)
	for theme, f := range dayFrequencies(today, m) {
		ranked := make([]KeywordCount, 0, len(f.counts))
		for canonical, count := range f.counts {
			ranked = append(ranked, KeywordCount{
				Keyword:   m.PickDisplay(canonical, f.candidates[canonical]),
				Canonical: canonical,
				Count:     count,
			})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Count != ranked[j].Count {
				return ranked[i].Count > ranked[j].Count
			}
			return ranked[i].Keyword < ranked[j].Keyword
		})
		out[theme] = ranked
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
