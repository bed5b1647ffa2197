package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/datafile"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/testutil"
)

// runCLI executes the root command with args and returns captured stdout and
// stderr. Each call builds a fresh command tree, matching one process run.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestRunValidate_explicitFile(t *testing.T) {
	base := t.TempDir()
	csv := testutil.WriteCSV(t, t.TempDir(), "sales.csv", "id,amount", "1,10", "2,20")

	out, _, err := runCLI(t, "--base", base, "validate", csv)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "ok:") {
		t.Errorf("output missing ok marker:\n%s", out)
	}
	if !strings.Contains(out, "rows=2") || !strings.Contains(out, "columns=2") {
		t.Errorf("output missing row/column counts:\n%s", out)
	}
}

func TestRunValidate_json(t *testing.T) {
	base := t.TempDir()
	csv := testutil.WriteCSV(t, t.TempDir(), "sales.csv", "id,amount,region", "1,10,east")

	out, _, err := runCLI(t, "--base", base, "validate", "--json", csv)
	if err != nil {
		t.Fatalf("validate --json failed: %v", err)
	}

	var v datafile.Validated
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if v.RowCount != 1 || v.ColumnCount != 3 {
		t.Errorf("rows=%d columns=%d, want 1 and 3", v.RowCount, v.ColumnCount)
	}
	if v.Format != datafile.FormatCSV {
		t.Errorf("format = %q, want csv", v.Format)
	}
}

func TestRunValidate_remembersAcrossInvocations(t *testing.T) {
	base := t.TempDir()
	csv := testutil.WriteCSV(t, t.TempDir(), "train.csv", "id,label", "1,a")

	if _, _, err := runCLI(t, "--base", base, "validate", csv); err != nil {
		t.Fatalf("first validate failed: %v", err)
	}

	// No path argument: the session should supply the file.
	out, _, err := runCLI(t, "--base", base, "validate")
	if err != nil {
		t.Fatalf("second validate failed: %v", err)
	}
	if !strings.Contains(out, "train.csv") {
		t.Errorf("expected remembered path in output:\n%s", out)
	}
}

func TestRunValidate_searchesRootsByBaseName(t *testing.T) {
	base := t.TempDir()
	uploads := t.TempDir()
	testutil.WriteCSV(t, uploads, "batch1/train.csv", "id,label", "1,a", "2,b")
	t.Setenv("DSAGENT_UPLOAD_ROOT", uploads)

	out, _, err := runCLI(t, "--base", base, "validate", "train.csv")
	if err != nil {
		t.Fatalf("validate via search failed: %v", err)
	}
	if !strings.Contains(out, "batch1") {
		t.Errorf("expected recovered path in output:\n%s", out)
	}
}

func TestRunValidate_notFound(t *testing.T) {
	base := t.TempDir()

	_, stderr, err := runCLI(t, "--base", base, "validate", "ghost.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want mention of not found", err)
	}
	if !strings.Contains(stderr, "hint:") {
		t.Errorf("expected hint on stderr:\n%s", stderr)
	}
}

func TestRunValidate_nothingRemembered(t *testing.T) {
	base := t.TempDir()

	_, _, err := runCLI(t, "--base", base, "validate")
	if err == nil {
		t.Fatal("expected error when no file is referenced or remembered")
	}
	if !strings.Contains(err.Error(), "none remembered") {
		t.Errorf("error = %v, want mention of nothing remembered", err)
	}
}

func TestRunValidate_requireRows(t *testing.T) {
	base := t.TempDir()
	csv := testutil.WriteCSV(t, t.TempDir(), "empty.csv", "id,amount")

	// Header-only parses fine by default, with a warning.
	out, _, err := runCLI(t, "--base", base, "validate", csv)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "zero data rows") {
		t.Errorf("expected zero-row warning:\n%s", out)
	}

	// With --require-rows the same file is rejected.
	_, _, err = runCLI(t, "--base", base, "validate", "--require-rows", csv)
	if err == nil {
		t.Fatal("expected error with --require-rows")
	}
	if !strings.Contains(err.Error(), "no data rows") {
		t.Errorf("error = %v, want mention of no data rows", err)
	}
}

func TestRunValidate_jsonError(t *testing.T) {
	base := t.TempDir()

	out, _, err := runCLI(t, "--base", base, "validate", "--json", "ghost.csv")
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var payload struct {
		Error   *datafile.ValidationError `json:"error"`
		Message string                    `json:"message"`
	}
	if jerr := json.Unmarshal([]byte(out), &payload); jerr != nil {
		t.Fatalf("invalid JSON error output: %v\n%s", jerr, out)
	}
	if payload.Error == nil || payload.Error.Kind != datafile.FailureNotFound {
		t.Errorf("payload error = %+v, want not_found kind", payload.Error)
	}
	if payload.Message == "" {
		t.Error("expected non-empty message")
	}
}
