// trends-compare loads the trailing window of reports from the snapshot
// store, runs the comparison engine, and prints the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/trendops/trendpulse/pkg/trendpulse"
	"github.com/trendops/trendpulse/pkg/trendpulse/config"
	"github.com/trendops/trendpulse/pkg/trendpulse/store/sqlite"
)

func main() {
	var (
		dbPath      = flag.String("db", "", "Snapshot database path (required)")
		aliasPath   = flag.String("aliases", "", "Alias rules YAML (optional, built-in rules by default)")
		optionsPath = flag.String("options", "", "Engine options YAML (optional)")
		window      = flag.Int("window", 0, "Window days override (optional)")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	loader := config.Loader{AliasPath: *aliasPath, OptionsPath: *optionsPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	windowDays := components.Options.WindowDays
	if *window > 0 {
		windowDays = *window
	}

	ctx := context.Background()
	st, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer st.Close()

	reports, err := st.RecentReports(ctx, windowDays)
	if err != nil {
		log.Fatal("Failed to load reports:", err)
	}
	if len(reports) == 0 {
		log.Fatal("No reports in store; run trends-fetch first")
	}

	engine := trendpulse.New(trendpulse.Options{
		Matcher: components.Matcher,
		Cluster: components.Options.ClusterConfig(),
	})
	result := engine.Compare(reports, windowDays)
	if result == nil {
		log.Fatal("Comparison produced no result")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		log.Fatal("Failed to encode result:", err)
	}
}
