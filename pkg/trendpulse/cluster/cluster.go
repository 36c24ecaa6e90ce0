// Package cluster groups a theme's same-day cards into event clusters:
// sets of at least two cards whose titles describe the same underlying
// story. Grouping is greedy single-linkage over character-bigram Jaccard
// similarity against each cluster's representative card.
package cluster

import (
	"crypto/rand"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/trendops/trendpulse/pkg/trendpulse/report"
	"github.com/trendops/trendpulse/pkg/trendpulse/similarity"
)

// MaxClusters bounds for per-theme output.
const (
	MinMaxClusters     = 3
	MaxMaxClusters     = 30
	DefaultMaxClusters = 30

	// DefaultSimilarityThreshold is the bigram Jaccard score at which two
	// titles are considered the same event.
	DefaultSimilarityThreshold = 0.55

	// TopItemsCap limits how many member cards a cluster reports.
	TopItemsCap = 5
)

// Config controls clustering. The zero value means defaults.
type Config struct {
	// SimilarityThreshold is expected in [0,1] but is applied as-is:
	// values above 1 mean nothing merges, values at or below 0 mean
	// everything in a theme may merge, NaN merges nothing. Clustering
	// never fails on a bad threshold, it only degrades.
	SimilarityThreshold float64

	// MaxClusters caps per-theme clusters, clamped to [3,30].
	// Zero means the default maximum of 30.
	MaxClusters int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxClusters:         DefaultMaxClusters,
	}
}

func (c Config) maxClusters() int {
	n := c.MaxClusters
	if n == 0 {
		n = DefaultMaxClusters
	}
	if n < MinMaxClusters {
		return MinMaxClusters
	}
	if n > MaxMaxClusters {
		return MaxMaxClusters
	}
	return n
}

// TopItem is one member card of a cluster.
type TopItem struct {
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// EventCluster is a group of >=2 cards judged to describe one event.
type EventCluster struct {
	ID       string       `json:"id"`
	Theme    report.Theme `json:"theme"`
	Label    string       `json:"label"`
	Size     int          `json:"size"`
	Sources  []string     `json:"sources"`
	TopItems []TopItem    `json:"top_items"`
	Impact   string       `json:"impact,omitempty"`
}

// Builder clusters cards and stamps each cluster with a ulid.
type Builder struct {
	entropy *ulid.MonotonicEntropy
	cfg     Config
}

// New creates a builder with the given config.
func New(cfg Config) *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		cfg:     cfg,
	}
}

// Cluster groups one theme's cards. Fewer than two cards yields nothing;
// singleton clusters are dropped, not emitted. Cards are visited in input
// order; each joins the first existing cluster whose representative title
// is at least SimilarityThreshold similar, else starts its own cluster.
// The representative is the highest-scored member so far, first-seen
// winning score ties.
func (b *Builder) Cluster(theme report.Theme, cards []report.TrendCard) []EventCluster {
	if len(cards) < 2 {
		return nil
	}

	grams := make([]map[string]struct{}, len(cards))
	for i, c := range cards {
		grams[i] = similarity.Bigrams(c.Title)
	}

	// Clusters hold card indices; rep points at the member whose bigrams
	// new candidates are compared against.
	type group struct {
		members []int
		rep     int
	}
	var groups []*group

	for i := range cards {
		joined := false
		for _, g := range groups {
			if similarity.Jaccard(grams[i], grams[g.rep]) >= b.cfg.SimilarityThreshold {
				g.members = append(g.members, i)
				if cards[i].Signals.Score > cards[g.rep].Signals.Score {
					g.rep = i
				}
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, &group{members: []int{i}, rep: i})
		}
	}

	var out []EventCluster
	for _, g := range groups {
		if len(g.members) < 2 {
			continue
		}
		out = append(out, b.build(theme, cards, g.members, g.rep))
	}

	// Largest clusters survive the per-theme cap.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	if max := b.cfg.maxClusters(); len(out) > max {
		out = out[:max]
	}
	return out
}

func (b *Builder) build(theme report.Theme, cards []report.TrendCard, members []int, rep int) EventCluster {
	sourceSet := make(map[string]struct{}, len(members))
	for _, i := range members {
		if cards[i].Source != "" {
			sourceSet[cards[i].Source] = struct{}{}
		}
	}
	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	ranked := append([]int(nil), members...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return cards[ranked[i]].Signals.Score > cards[ranked[j]].Signals.Score
	})
	if len(ranked) > TopItemsCap {
		ranked = ranked[:TopItemsCap]
	}
	top := make([]TopItem, len(ranked))
	for i, idx := range ranked {
		top[i] = TopItem{
			Title:  cards[idx].Title,
			Score:  cards[idx].Signals.Score,
			Source: cards[idx].Source,
		}
	}

	return EventCluster{
		ID:       ulid.MustNew(ulid.Now(), b.entropy).String(),
		Theme:    theme,
		Label:    cards[rep].Title,
		Size:     len(members),
		Sources:  sources,
		TopItems: top,
	}
}

// Rank orders clusters merged across themes by size descending, then by
// source count descending, and caps the list at max (no cap when max <= 0).
func Rank(clusters []EventCluster, max int) []EventCluster {
	out := append([]EventCluster(nil), clusters...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return len(out[i].Sources) > len(out[j].Sources)
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
