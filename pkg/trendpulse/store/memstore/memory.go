// Package memstore is an in-memory store.Store for tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trendops/trendpulse/pkg/trendpulse/internalerr"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

// Store keeps reports in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	reports map[string]report.TrendsReport
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{reports: make(map[string]report.TrendsReport)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveReport upserts the report for its day.
func (s *Store) SaveReport(ctx context.Context, r report.TrendsReport) error {
	if r.DayKey == "" {
		return fmt.Errorf("save report: %w: empty day key", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.DayKey] = r
	return nil
}

// ReportByDay fetches one day's report.
func (s *Store) ReportByDay(ctx context.Context, dayKey string) (report.TrendsReport, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[dayKey]
	return r, ok, nil
}

// RecentReports returns up to limit reports, newest day first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]report.TrendsReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]string, 0, len(s.reports))
	for day := range s.reports {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	out := make([]report.TrendsReport, 0, len(days))
	for _, day := range days {
		out = append(out, s.reports[day])
	}
	return out, nil
}

// Days lists stored day keys, newest first.
func (s *Store) Days(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]string, 0, len(s.reports))
	for day := range s.reports {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}
