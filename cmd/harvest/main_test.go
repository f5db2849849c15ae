package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eveanchor/internal/app/objective"
	"eveanchor/internal/domain/harvest"
	"eveanchor/internal/refdata"
)

const fixtureDir = "../../internal/refdata/testdata"

const requirements = objective.RequirementHeader + "\n" +
	"1\tSilicate Glass\t2000\t2022680\n" +
	"2\tLiquid Ozone\t1000\t166130\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGroupingsValue_AccumulatesFlags(t *testing.T) {
	var gs []objective.Grouping
	v := groupingsValue{groupings: &gs}
	if err := v.Set("Tanoo=1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := v.Set("San_Matar=2 Sooma=1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, want := v.String(), "Tanoo=1 San_Matar=2 Sooma=1"; got != want {
		t.Fatalf("String()=%q want %q", got, want)
	}
	if err := v.Set("Tanoo"); err == nil {
		t.Fatal("expected error for token without =")
	}
}

func TestSolve_RequirementFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.tsv")
	if err := os.WriteFile(path, []byte(requirements), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "solve", "--data", fixtureDir, "-D", "7", "-C", "Tanoo=1", "-f", path)
	if err != nil {
		t.Fatalf("solve error = %v\n%s", err, out)
	}
	for _, want := range []string{"Harvest plan for 7 days", "CELESTIAL", "Summary", "Signature:"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSolve_RequirementsFromStdin(t *testing.T) {
	chat := strings.ReplaceAll(requirements, "\t", `\t`)
	out, err := run(t, chat, "solve", "--data", fixtureDir, "-D", "7", "-C", "Tanoo=1", "-f", "-")
	if err != nil {
		t.Fatalf("solve error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Summary") {
		t.Fatalf("output missing summary:\n%s", out)
	}
}

func TestSolve_Errors(t *testing.T) {
	_, err := run(t, "", "solve", "--data", fixtureDir, "-D", "7")
	if !errors.Is(err, objective.ErrNoGroupings) {
		t.Fatalf("no groupings: err=%v want ErrNoGroupings", err)
	}

	_, err = run(t, "", "solve", "--data", fixtureDir, "-D", "0", "-C", "Tanoo=1")
	if !errors.Is(err, harvest.ErrInvalidDays) {
		t.Fatalf("zero days: err=%v want ErrInvalidDays", err)
	}

	nanites := objective.RequirementHeader + "\n1\tNanites\t10\t100\n"
	_, err = run(t, nanites, "solve", "--data", fixtureDir, "-D", "7", "-C", "Tanoo=1", "-f", "-")
	if !errors.Is(err, harvest.ErrInfeasible) {
		t.Fatalf("no source: err=%v want ErrInfeasible", err)
	}

	if _, err := run(t, "", "solve", "--data", t.TempDir(), "-D", "7", "-C", "Tanoo=1"); err == nil {
		t.Fatal("expected error for empty data dir")
	}
}

func TestOutpost_AddListDeleteAndSolve(t *testing.T) {
	root := t.TempDir()
	mgr := "Anchor/Corp/pilot"

	out, err := run(t, "", "outpost", "--root", root, "-m", mgr, "add",
		"--name", "tanoo-1", "--system", "Tanoo", "--capsuleer", "Kira", "--planets", "5", "--arrays", "12")
	if err != nil {
		t.Fatalf("add error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Added tanoo-1 in Tanoo to pilot") {
		t.Fatalf("add output = %q", out)
	}

	if _, err := run(t, "", "outpost", "--root", root, "-m", mgr, "add", "--name", "tanoo-1", "--system", "Tanoo"); err == nil {
		t.Fatal("expected duplicate name error")
	}

	out, err = run(t, "", "outpost", "--root", root, "-m", mgr, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "tanoo-1") || !strings.Contains(out, "Kira") {
		t.Fatalf("list output missing outpost:\n%s", out)
	}

	out, err = run(t, requirements, "solve", "--data", fixtureDir, "--root", root, "--manager", mgr, "-D", "7", "-f", "-")
	if err != nil {
		t.Fatalf("solve from book error = %v\n%s", err, out)
	}

	if _, err := run(t, "", "outpost", "--root", root, "-m", mgr, "delete", "tanoo-1"); err != nil {
		t.Fatalf("delete error = %v", err)
	}
	out, err = run(t, "", "outpost", "--root", root, "-m", mgr, "list")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(out, "no outposts") {
		t.Fatalf("list after delete:\n%s", out)
	}
}

func TestSolve_DataDirFromEnvironment(t *testing.T) {
	t.Setenv("EVEANCHOR_DATA_DIR", fixtureDir)
	out, err := run(t, requirements, "solve", "-D", "7", "-C", "Tanoo=1", "-f", "-")
	if err != nil {
		t.Fatalf("solve error = %v\n%s", err, out)
	}
}

func TestRoot_InvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eveanchor.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  backend: memcached\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "", "--config", path, "solve", "--data", fixtureDir, "-D", "7", "-C", "Tanoo=1")
	if err == nil || !strings.Contains(err.Error(), "cache.backend") {
		t.Fatalf("err=%v want cache.backend validation error", err)
	}
}

func TestFetch_WritesMissingTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out, err := run(t, "", "fetch", "--data", dir, "--url", srv.URL+"/")
	if err != nil {
		t.Fatalf("fetch error = %v\n%s", err, out)
	}
	if got := strings.Count(out, "wrote "); got != len(refdata.Files) {
		t.Fatalf("wrote %d tables want %d:\n%s", got, len(refdata.Files), out)
	}

	out, err = run(t, "", "fetch", "--data", dir, "--url", srv.URL+"/")
	if err != nil {
		t.Fatalf("second fetch error = %v", err)
	}
	if !strings.Contains(out, "is up to date") {
		t.Fatalf("second fetch output = %q", out)
	}
}
