package cluster

import (
	"math"
	"testing"

	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

func scoredCard(source, title string, score float64) report.TrendCard {
	return report.TrendCard{
		Source:  source,
		Title:   title,
		Signals: report.Signals{Score: score},
	}
}

func TestClusterIdenticalTitles(t *testing.T) {
	b := New(DefaultConfig())
	cards := []report.TrendCard{
		scoredCard("s1", "Bitcoin hits record high", 10),
		scoredCard("s2", "Bitcoin hits record high", 5),
	}

	got := b.Cluster(report.ThemeCrypto, cards)
	if len(got) != 1 {
		t.Fatalf("got %d clusters, want 1", len(got))
	}
	c := got[0]
	if c.Size != 2 {
		t.Errorf("Size = %d, want 2", c.Size)
	}
	if c.Label != "Bitcoin hits record high" {
		t.Errorf("Label = %q", c.Label)
	}
	if len(c.Sources) != 2 || c.Sources[0] != "s1" || c.Sources[1] != "s2" {
		t.Errorf("Sources = %v, want [s1 s2]", c.Sources)
	}
	if c.ID == "" {
		t.Error("cluster should carry an ID")
	}
}

func TestClusterDisjointTitles(t *testing.T) {
	b := New(Config{SimilarityThreshold: 0.9, MaxClusters: 30})
	cards := []report.TrendCard{
		scoredCard("s1", "alpha event one", 1),
		scoredCard("s2", "totally different story", 1),
		scoredCard("s3", "第三个无关新闻", 1),
	}
	if got := b.Cluster(report.ThemeTech, cards); len(got) != 0 {
		t.Errorf("pairwise-disjoint titles should all be dropped singletons, got %v", got)
	}
}

func TestClusterRepresentativeByScore(t *testing.T) {
	b := New(DefaultConfig())
	cards := []report.TrendCard{
		scoredCard("s1", "Tesla unveils humanoid robot at event", 3),
		scoredCard("s2", "Tesla unveils humanoid robot at the event", 9),
		scoredCard("s3", "Tesla unveils its humanoid robot at event", 9),
	}

	got := b.Cluster(report.ThemeRobotics, cards)
	if len(got) != 1 {
		t.Fatalf("got %d clusters, want 1", len(got))
	}
	// Highest score wins; between the two 9s, first-seen keeps the slot.
	if got[0].Label != "Tesla unveils humanoid robot at the event" {
		t.Errorf("Label = %q, want the first highest-scored title", got[0].Label)
	}
	if got[0].TopItems[0].Score != 9 {
		t.Errorf("TopItems[0].Score = %v, want 9", got[0].TopItems[0].Score)
	}
}

func TestClusterFewerThanTwoCards(t *testing.T) {
	b := New(DefaultConfig())
	if got := b.Cluster(report.ThemeAI, nil); got != nil {
		t.Errorf("nil cards: got %v", got)
	}
	one := []report.TrendCard{scoredCard("s1", "solo story", 1)}
	if got := b.Cluster(report.ThemeAI, one); got != nil {
		t.Errorf("single card: got %v", got)
	}
}

func TestClusterThresholdExtremes(t *testing.T) {
	cards := []report.TrendCard{
		scoredCard("s1", "one story", 1),
		scoredCard("s2", "another thing entirely", 1),
		scoredCard("s3", "third unrelated headline", 1),
	}

	// Threshold above 1: nothing merges, everything is a dropped singleton.
	high := New(Config{SimilarityThreshold: 1.5, MaxClusters: 30})
	if got := high.Cluster(report.ThemeTech, cards); len(got) != 0 {
		t.Errorf("threshold > 1: got %v, want none", got)
	}

	// Threshold <= 0: everything in the theme may merge into one cluster.
	low := New(Config{SimilarityThreshold: 0, MaxClusters: 30})
	got := low.Cluster(report.ThemeTech, cards)
	if len(got) != 1 || got[0].Size != 3 {
		t.Errorf("threshold 0: got %v, want one cluster of 3", got)
	}

	// NaN threshold: comparisons are false, nothing merges, no panic.
	nan := New(Config{SimilarityThreshold: math.NaN(), MaxClusters: 30})
	if got := nan.Cluster(report.ThemeTech, cards); len(got) != 0 {
		t.Errorf("NaN threshold: got %v, want none", got)
	}
}

func TestClusterTopItemsCapAndOrder(t *testing.T) {
	b := New(Config{SimilarityThreshold: 0, MaxClusters: 30})
	cards := make([]report.TrendCard, 0, 7)
	for _, score := range []float64{1, 7, 3, 9, 5, 2, 8} {
		cards = append(cards, scoredCard("src", "same story", score))
	}

	got := b.Cluster(report.ThemeAI, cards)
	if len(got) != 1 {
		t.Fatalf("got %d clusters, want 1", len(got))
	}
	items := got[0].TopItems
	if len(items) != TopItemsCap {
		t.Fatalf("TopItems has %d entries, want %d", len(items), TopItemsCap)
	}
	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Errorf("TopItems not score-descending: %v", items)
		}
	}
	if items[0].Score != 9 {
		t.Errorf("top item score = %v, want 9", items[0].Score)
	}
}

func TestMaxClustersClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 30}, // unset means default maximum
		{-4, 3},
		{1, 3},
		{3, 3},
		{17, 17},
		{30, 30},
		{99, 30},
	}
	for _, tt := range tests {
		cfg := Config{MaxClusters: tt.in}
		if got := cfg.maxClusters(); got != tt.want {
			t.Errorf("maxClusters(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClusterPerThemeCap(t *testing.T) {
	// Eight identical-title pairs make eight clusters; cap keeps three.
	b := New(Config{SimilarityThreshold: 0.99, MaxClusters: 1})
	var cards []report.TrendCard
	titles := []string{
		"alpha gamma delta", "bravo kilo lima", "charlie mike november",
		"esper oscar papa", "foxtrot quebec romeo", "golf sierra tango",
		"hotel uniform victor", "india whiskey xray",
	}
	for _, title := range titles {
		cards = append(cards, scoredCard("a", title, 1), scoredCard("b", title, 2))
	}

	got := b.Cluster(report.ThemeTech, cards)
	if len(got) != MinMaxClusters {
		t.Errorf("got %d clusters, want clamp to %d", len(got), MinMaxClusters)
	}
}

func TestRank(t *testing.T) {
	clusters := []EventCluster{
		{Label: "small", Size: 2, Sources: []string{"a"}},
		{Label: "big", Size: 5, Sources: []string{"a", "b"}},
		{Label: "wide", Size: 3, Sources: []string{"a", "b", "c"}},
		{Label: "narrow", Size: 3, Sources: []string{"a"}},
	}

	got := Rank(clusters, 3)
	if len(got) != 3 {
		t.Fatalf("got %d clusters, want 3", len(got))
	}
	wantOrder := []string{"big", "wide", "narrow"}
	for i, w := range wantOrder {
		if got[i].Label != w {
			t.Errorf("Rank[%d] = %q, want %q", i, got[i].Label, w)
		}
	}

	// Input slice must stay untouched.
	if clusters[0].Label != "small" {
		t.Error("Rank mutated its input")
	}
}
