// Package store defines persistence for daily trend-report snapshots. The
// engine itself never touches a store; the ingestion and reporting tools
// around it do.
package store

import (
	"context"

	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

// Store persists one report per day, keyed by the report's DayKey.
type Store interface {
	Close() error

	// SaveReport inserts or replaces the report for its day.
	SaveReport(ctx context.Context, r report.TrendsReport) error

	// ReportByDay fetches one day's report. The bool reports presence.
	ReportByDay(ctx context.Context, dayKey string) (report.TrendsReport, bool, error)

	// RecentReports returns up to limit reports, newest day first.
	// A non-positive limit returns everything.
	RecentReports(ctx context.Context, limit int) ([]report.TrendsReport, error)

	// Days lists all stored day keys, newest first.
	Days(ctx context.Context) ([]string, error)
}
