// Package trendpulse compares a window of daily trend reports and surfaces
// three kinds of signal: keywords spiking against their trailing baseline,
// keywords corroborated by several independent sources on the same day, and
// groups of cards describing the same underlying event.
//
// The engine is a pure, synchronous computation over caller-supplied
// snapshots: no I/O, no retries, no mutation of its inputs. Per-theme work
// is fanned across goroutines but results are merged in a deterministic
// order, so repeated runs over the same window are identical apart from
// generated IDs.
package trendpulse

import (
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/trendops/trendpulse/pkg/trendpulse/alias"
	"github.com/trendops/trendpulse/pkg/trendpulse/cluster"
	"github.com/trendops/trendpulse/pkg/trendpulse/detect"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

// Output caps for an assembled comparison result.
const (
	MaxSpikes          = 20
	MaxResonance       = 20
	MaxMergedClusters  = 18
	MaxTodayKeywords   = 6
	MaxSpikingKeywords = 3
)

// Meta describes one comparison run. WindowDays is the number of reports
// actually used, which may be smaller than the requested window.
type Meta struct {
	RunID      string `json:"run_id"`
	DayKey     string `json:"day_key"`
	WindowDays int    `json:"window_days"`
}

// ThemeSummary is the compact per-theme projection of a comparison.
type ThemeSummary struct {
	Theme           report.Theme `json:"theme"`
	TodayKeywords   []string     `json:"today_keywords"`
	SpikingKeywords []string     `json:"spiking_keywords"`
}

// TrendsCompareResult is the full output of one comparison run.
type TrendsCompareResult struct {
	Meta      Meta                   `json:"meta"`
	Spikes    []detect.Spike         `json:"spikes"`
	Resonance []detect.Resonance     `json:"resonance"`
	Clusters  []cluster.EventCluster `json:"clusters"`
	PerTheme  []ThemeSummary         `json:"per_theme"`
}

// Options configures an Engine.
type Options struct {
	// Matcher canonicalizes keywords. nil means the built-in default
	// rules. The matcher is read-only during comparisons; swap the whole
	// Engine (or Matcher) to change rules, never mutate one in place.
	Matcher *alias.Matcher

	// Cluster tunes the event clusterer. Zero value means defaults.
	Cluster cluster.Config

	// Workers bounds the per-theme fan-out. Zero or negative means one
	// goroutine per theme.
	Workers int
}

// Engine runs comparisons. Safe for concurrent use.
type Engine struct {
	matcher    *alias.Matcher
	clusterCfg cluster.Config
	workers    int
}

// New creates an engine.
func New(opts Options) *Engine {
	m := opts.Matcher
	if m == nil {
		m = alias.NewDefaultMatcher()
	}
	cfg := opts.Cluster
	if cfg == (cluster.Config{}) {
		cfg = cluster.DefaultConfig()
	}
	return &Engine{matcher: m, clusterCfg: cfg, workers: opts.Workers}
}

// Compare analyzes a newest-first window of reports. windowDays is clamped
// to [2,14] and then to the number of reports available. Returns nil when
// reports is empty: an empty window is the one unanswerable input.
func (e *Engine) Compare(reports []report.TrendsReport, windowDays int) *TrendsCompareResult {
	if len(reports) == 0 {
		return nil
	}

	n := detect.ClampWindow(windowDays)
	if n > len(reports) {
		n = len(reports)
	}
	window := reports[:n]
	today := &window[0]
	themes := today.Themes()

	var (
		spikes    []detect.Spike
		resonance []detect.Resonance
	)
	clustersByTheme := make([][]cluster.EventCluster, len(themes))

	var g errgroup.Group
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}
	g.Go(func() error {
		spikes = detect.Spikes(window, e.matcher)
		return nil
	})
	g.Go(func() error {
		resonance = detect.Resonances(today, e.matcher)
		return nil
	})
	for i, theme := range themes {
		i, theme := i, theme
		g.Go(func() error {
			// One builder per theme: the ulid entropy source is not
			// safe to share across goroutines.
			b := cluster.New(e.clusterCfg)
			clustersByTheme[i] = b.Cluster(theme, cardsFor(today, theme))
			return nil
		})
	}
	_ = g.Wait() // the workers never return errors

	var merged []cluster.EventCluster
	for _, cs := range clustersByTheme {
		merged = append(merged, cs...)
	}

	result := &TrendsCompareResult{
		Meta: Meta{
			RunID:      ulid.Make().String(),
			DayKey:     today.DayKey,
			WindowDays: n,
		},
		Spikes:    capSpikes(spikes, MaxSpikes),
		Resonance: capResonance(resonance, MaxResonance),
		Clusters:  cluster.Rank(merged, MaxMergedClusters),
		PerTheme:  perTheme(today, themes, spikes, e.matcher),
	}
	return result
}

// Compare runs a one-off comparison with the given matcher and default
// clustering config. A nil matcher falls back to the built-in rules.
func Compare(reports []report.TrendsReport, windowDays int, matcher *alias.Matcher) *TrendsCompareResult {
	return New(Options{Matcher: matcher}).Compare(reports, windowDays)
}

// CompareReports is the convenience wrapper for callers without custom
// alias rules: it builds the default matcher internally.
func CompareReports(reports []report.TrendsReport, windowDays int) *TrendsCompareResult {
	return Compare(reports, windowDays, nil)
}

func cardsFor(r *report.TrendsReport, theme report.Theme) []report.TrendCard {
	var cards []report.TrendCard
	for _, g := range r.GroupsFor(theme) {
		cards = append(cards, g.Cards...)
	}
	return cards
}

func perTheme(today *report.TrendsReport, themes []report.Theme, spikes []detect.Spike, m *alias.Matcher) []ThemeSummary {
	top := detect.TopKeywords(today, m)

	out := make([]ThemeSummary, 0, len(themes))
	for _, theme := range themes {
		summary := ThemeSummary{Theme: theme}

		for _, kc := range top[theme] {
			if len(summary.TodayKeywords) >= MaxTodayKeywords {
				break
			}
			summary.TodayKeywords = append(summary.TodayKeywords, kc.Keyword)
		}

		// Spikes arrive ratio-descending; keep that order per theme.
		for _, s := range spikes {
			if s.Theme != theme {
				continue
			}
			if len(summary.SpikingKeywords) >= MaxSpikingKeywords {
				break
			}
			summary.SpikingKeywords = append(summary.SpikingKeywords, s.Keyword)
		}

		out = append(out, summary)
	}
	return out
}

func capSpikes(s []detect.Spike, max int) []detect.Spike {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func capResonance(r []detect.Resonance, max int) []detect.Resonance {
	if len(r) > max {
		return r[:max]
	}
	return r
}
