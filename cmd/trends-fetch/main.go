// trends-fetch pulls the configured RSS feeds, builds today's trends
// report, and persists it to the snapshot store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/trendops/trendpulse/internal/feed"
	"github.com/trendops/trendpulse/pkg/trendpulse/config"
	"github.com/trendops/trendpulse/pkg/trendpulse/store/sqlite"
)

func main() {
	var (
		dbPath      = flag.String("db", "", "Snapshot database path (required)")
		sourcesPath = flag.String("sources", "", "Feed sources YAML (optional, built-in list by default)")
		themesPath  = flag.String("themes", "", "Theme dictionaries YAML (optional)")
		day         = flag.String("day", "", "Day key to write, YYYY-MM-DD (optional, today by default)")
		timeout     = flag.Duration("timeout", 2*time.Minute, "Overall fetch timeout")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	loader := config.Loader{ThemesPath: *themesPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	sources := feed.DefaultSources()
	if *sourcesPath != "" {
		sources, err = feed.LoadSources(*sourcesPath)
		if err != nil {
			log.Fatal("Failed to load sources:", err)
		}
	}

	dayKey := *day
	if dayKey == "" {
		dayKey = feed.DayKey(time.Now())
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer st.Close()

	log.Printf("Fetching %d sources for %s...", len(sources), dayKey)
	r := feed.New(components.Tagger).BuildReport(ctx, dayKey, sources)

	cards := 0
	for _, g := range r.TrendsByTheme {
		cards += len(g.Cards)
	}
	log.Printf("Built report: %d theme groups, %d cards", len(r.TrendsByTheme), cards)

	if err := st.SaveReport(ctx, r); err != nil {
		log.Fatal("Failed to save report:", err)
	}
	log.Printf("Saved report for %s", dayKey)
}
