package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/artifact"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/testutil"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

// seedArtifacts initializes a dataset and registers a small spread of kinds.
func seedArtifacts(t *testing.T, base string) {
	t.Helper()
	initDataset(t, base, "demo")
	dir := t.TempDir()
	files := []string{
		testutil.WriteFile(t, dir, "chart.png", "png-bytes"),
		testutil.WriteFile(t, dir, "model.joblib", "weights"),
		testutil.WriteFile(t, dir, "eval_metrics.json", "{}"),
	}
	args := append([]string{"--base", base, "register"}, files...)
	if _, _, err := runCLI(t, args...); err != nil {
		t.Fatalf("register failed: %v", err)
	}
}

func TestRunList_table(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	out, _, err := runCLI(t, "--base", base, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"NAME", "chart.png", "model.joblib", "eval_metrics.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "3 artifact(s)") {
		t.Errorf("output missing count:\n%s", out)
	}
}

func TestRunList_kindFilter(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	out, _, err := runCLI(t, "--base", base, "list", "--kind", "plot")
	if err != nil {
		t.Fatalf("list --kind failed: %v", err)
	}
	if !strings.Contains(out, "chart.png") {
		t.Errorf("plot missing from output:\n%s", out)
	}
	if strings.Contains(out, "model.joblib") {
		t.Errorf("model should be filtered out:\n%s", out)
	}
}

func TestRunList_matchFilter(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	out, _, err := runCLI(t, "--base", base, "list", "--match", "*.json")
	if err != nil {
		t.Fatalf("list --match failed: %v", err)
	}
	if !strings.Contains(out, "eval_metrics.json") {
		t.Errorf("json artifact missing from output:\n%s", out)
	}
	if strings.Contains(out, "chart.png") {
		t.Errorf("png should be filtered out:\n%s", out)
	}
}

func TestRunList_matchOnLabel(t *testing.T) {
	base := t.TempDir()
	initDataset(t, base, "demo")
	file := testutil.WriteFile(t, t.TempDir(), "output.parquet", "not-really-parquet")
	if _, _, err := runCLI(t, "--base", base, "register", "--label", "weekly-eval", file); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	out, _, err := runCLI(t, "--base", base, "list", "--match", "weekly-*")
	if err != nil {
		t.Fatalf("list --match failed: %v", err)
	}
	if !strings.Contains(out, "output.parquet") {
		t.Errorf("label match missing from output:\n%s", out)
	}
}

func TestRunList_badMatchPattern(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	_, _, err := runCLI(t, "--base", base, "list", "--match", "[")
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
	if !strings.Contains(err.Error(), "--match") {
		t.Errorf("error = %v, want mention of --match", err)
	}
}

func TestRunList_json(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	out, _, err := runCLI(t, "--base", base, "list", "--json")
	if err != nil {
		t.Fatalf("list --json failed: %v", err)
	}
	var records []artifact.Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Errorf("records = %d, want 3", len(records))
	}
}

func TestRunList_runFlag(t *testing.T) {
	base := t.TempDir()
	seedArtifacts(t, base)

	ws, err := workspace.NewManager(base).Latest("demo")
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "--base", base, "list", "--run", ws.RunID)
	if err != nil {
		t.Fatalf("list --run failed: %v", err)
	}
	if !strings.Contains(out, ws.RunID) {
		t.Errorf("output missing run id:\n%s", out)
	}

	_, _, err = runCLI(t, "--base", base, "list", "--run", "19990101_000000")
	if err == nil {
		t.Fatal("expected error for unknown run")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestRunList_emptyRunHasNoArtifacts(t *testing.T) {
	base := t.TempDir()
	initDataset(t, base, "bare")

	out, _, err := runCLI(t, "--base", base, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "0 artifact(s)") {
		t.Errorf("expected empty listing:\n%s", out)
	}
}
