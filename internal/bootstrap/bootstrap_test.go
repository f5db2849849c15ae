package bootstrap

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/app/outpost"
	"eveanchor/internal/app/solve"
	"eveanchor/internal/config"
	"eveanchor/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Server:  config.ServerConfig{Addr: ":0"},
		Data:    config.DataConfig{Dir: "../refdata/testdata"},
		Cache:   config.CacheConfig{Backend: config.CacheLocal, TTL: time.Minute},
		History: config.HistoryConfig{Path: filepath.Join(t.TempDir(), "history.db")},
		Log:     config.LogConfig{Level: "debug"},
		Org:     config.OrgConfig{Alliance: "Goonswarm", Corporation: "Anchor Corp"},
	}
}

func TestBuild_InMemory(t *testing.T) {
	ctx := context.Background()
	app, err := Build(ctx, testConfig(t), logging.NewTest(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer app.Close()

	if app.Org.CorporationName != "Anchor Corp" || app.Org.AllianceID == nil {
		t.Fatalf("Org=%+v", app.Org)
	}
	if _, err := app.Outposts.Register(ctx, outpost.RegisterRequest{Member: "pilot", Capsuleer: "Kira", Name: "tanoo-1", System: "Tanoo", Planets: 5, Arrays: 12}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	req := objective.RequirementHeader + "\n1\tSilicate Glass\t2000\t2022680"
	for i := 0; i < 2; i++ {
		if _, err := app.Solve.Execute(ctx, mustRequest(t, app, req)); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
	}
	snap := app.KPI.Snapshot()
	if snap.SolveTotal != 1 || snap.CacheHits != 1 || snap.CacheMisses != 1 {
		t.Fatalf("KPI=%+v", snap)
	}

	records, err := app.History.Recent(ctx, 10)
	if err != nil || len(records) != 1 {
		t.Fatalf("Recent()=%v, %v", records, err)
	}

	rec := httptest.NewRecorder()
	app.Metrics.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `eveanchor_solves_total{outcome="ok"} 1`) {
		t.Fatalf("metrics output missing solve counter:\n%s", rec.Body.String())
	}
}

func mustRequest(t *testing.T, app *App, requirements string) solve.Request {
	t.Helper()
	req, err := solve.FromText(app.Ref, 7, "Tanoo=1", requirements)
	if err != nil {
		t.Fatalf("FromText() error = %v", err)
	}
	return req
}

func TestBuild_MissingReferenceData(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Dir = t.TempDir()
	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for empty data dir")
	}
}

func TestBuild_BadTuningFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.TuningFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Build(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing tuning file")
	}
}
