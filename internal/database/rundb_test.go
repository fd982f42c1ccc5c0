package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/precheck/internal/model"
)

func testRun() *model.RunReport {
	site1 := model.NewSiteReport("https://a.example")
	site1.PageSpeed["desktop"] = &model.StrategyResult{Strategy: "desktop", Score: 88}
	site1.PageSpeed["mobile"] = &model.StrategyResult{Strategy: "mobile", Score: 64}
	site1.Result(model.ViewportDesktop).ScreenshotPath = "outputs/run/screenshots/desktop/a.png"
	site1.Summary = model.NewSummary(site1)

	site2 := model.NewSiteReport("https://b.example")
	site2.ErrorMessage = "navigation failed"
	site2.Summary = model.NewSummary(site2)

	return &model.RunReport{
		StartedAt:  time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 15, 10, 5, 0, 0, time.UTC),
		OutputDir:  "outputs/2025-06-15_10-00-00",
		Sites:      []*model.SiteReport{site1, site2},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
}

func TestOpenRequiresExistingDatabase(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestSaveRunAndGetRunByID(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	id, err := db.SaveRun(ctx, testRun())
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive run ID, got %d", id)
	}

	run, err := db.GetRunByID(ctx, id)
	if err != nil {
		t.Fatalf("GetRunByID: %v", err)
	}
	if run == nil {
		t.Fatal("expected stored run")
	}
	if len(run.Sites) != 2 {
		t.Errorf("expected 2 sites, got %d", len(run.Sites))
	}
	if run.OutputDir != "outputs/2025-06-15_10-00-00" {
		t.Errorf("unexpected output dir %q", run.OutputDir)
	}

	missing, err := db.GetRunByID(ctx, id+1000)
	if err != nil {
		t.Fatalf("GetRunByID missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown run ID")
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		run := testRun()
		run.StartedAt = run.StartedAt.Add(time.Duration(i) * time.Hour)
		if _, err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].StartedAt.Before(runs[1].StartedAt) {
		t.Error("runs should be ordered newest first")
	}
	if runs[0].URLCount != 2 {
		t.Errorf("expected url count 2, got %d", runs[0].URLCount)
	}
	if runs[0].Totals.URLCount != 2 {
		t.Errorf("expected totals url count 2, got %d", runs[0].Totals.URLCount)
	}

	limited, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 runs with limit, got %d", len(limited))
	}
}

func TestGetSiteHistory(t *testing.T) {
	t.Parallel()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.SaveRun(ctx, testRun()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := db.SaveRun(ctx, testRun()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	history, err := db.GetSiteHistory(ctx, "https://a.example")
	if err != nil {
		t.Fatalf("GetSiteHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].DesktopScore == nil || *history[0].DesktopScore != 88 {
		t.Errorf("unexpected desktop score %v", history[0].DesktopScore)
	}
	if history[0].MobileScore == nil || *history[0].MobileScore != 64 {
		t.Errorf("unexpected mobile score %v", history[0].MobileScore)
	}

	// The failed site has no scores; they must come back nil.
	failed, err := db.GetSiteHistory(ctx, "https://b.example")
	if err != nil {
		t.Fatalf("GetSiteHistory failed site: %v", err)
	}
	if len(failed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(failed))
	}
	if failed[0].DesktopScore != nil {
		t.Errorf("expected nil desktop score, got %v", *failed[0].DesktopScore)
	}

	none, err := db.GetSiteHistory(ctx, "https://missing.example")
	if err != nil {
		t.Fatalf("GetSiteHistory missing: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no entries, got %d", len(none))
	}
}
