package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/trendops/trendpulse/pkg/trendpulse/internalerr"
	"github.com/trendops/trendpulse/pkg/trendpulse/report"
)

func openTestStore(t *testing.T) (context.Context, *sqliteStore) {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return ctx, s.(*sqliteStore)
}

func sampleReport(key string) report.TrendsReport {
	return report.TrendsReport{
		DayKey: key,
		TrendsByTheme: []report.ThemeGroup{
			{
				Theme:    report.ThemeCrypto,
				Keywords: []string{"btc", "比特币"},
				Cards: []report.TrendCard{
					{ID: "c1", Source: "hackernews", Title: "Bitcoin climbs", Signals: report.Signals{Score: 4}},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	ctx, s := openTestStore(t)

	if err := s.SaveReport(ctx, sampleReport("2026-08-28")); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, ok, err := s.ReportByDay(ctx, "2026-08-28")
	if err != nil || !ok {
		t.Fatalf("ReportByDay: ok=%v err=%v", ok, err)
	}
	g := got.TrendsByTheme[0]
	if g.Theme != report.ThemeCrypto || len(g.Keywords) != 2 || g.Keywords[1] != "比特币" {
		t.Errorf("round trip lost data: %+v", g)
	}
	if len(g.Cards) != 1 || g.Cards[0].Signals.Score != 4 {
		t.Errorf("round trip lost card data: %+v", g.Cards)
	}
}

func TestMissingDay(t *testing.T) {
	ctx, s := openTestStore(t)
	_, ok, err := s.ReportByDay(ctx, "1999-01-01")
	if err != nil {
		t.Fatalf("ReportByDay: %v", err)
	}
	if ok {
		t.Error("missing day should report absent, not error")
	}
}

func TestSaveEmptyDayKey(t *testing.T) {
	ctx, s := openTestStore(t)
	err := s.SaveReport(ctx, report.TrendsReport{})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpsertReplaces(t *testing.T) {
	ctx, s := openTestStore(t)
	if err := s.SaveReport(ctx, sampleReport("2026-08-28")); err != nil {
		t.Fatal(err)
	}

	updated := sampleReport("2026-08-28")
	updated.TrendsByTheme[0].Keywords = []string{"eth"}
	if err := s.SaveReport(ctx, updated); err != nil {
		t.Fatal(err)
	}

	got, _, err := s.ReportByDay(ctx, "2026-08-28")
	if err != nil {
		t.Fatal(err)
	}
	if kws := got.TrendsByTheme[0].Keywords; len(kws) != 1 || kws[0] != "eth" {
		t.Errorf("upsert did not replace: %v", kws)
	}

	days, err := s.Days(ctx)
	if err != nil || len(days) != 1 {
		t.Errorf("Days = %v, %v", days, err)
	}
}

func TestRecentReportsWindowOrder(t *testing.T) {
	ctx, s := openTestStore(t)
	for _, key := range []string{"2026-08-25", "2026-08-28", "2026-08-26", "2026-08-27"} {
		if err := s.SaveReport(ctx, sampleReport(key)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentReports(ctx, 3)
	if err != nil {
		t.Fatalf("RecentReports: %v", err)
	}
	want := []string{"2026-08-28", "2026-08-27", "2026-08-26"}
	if len(got) != len(want) {
		t.Fatalf("got %d reports, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].DayKey != w {
			t.Errorf("RecentReports[%d] = %s, want %s", i, got[i].DayKey, w)
		}
	}
}
