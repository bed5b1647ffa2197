package workspace

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/session"
	"pgregory.net/rapid"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testSession(t *testing.T) *session.Context {
	t.Helper()
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("session.Load() error: %v", err)
	}
	return sess
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"sales", "sales"},
		{"Sales-2025_q1", "Sales-2025_q1"},
		{"../../etc", "____etc"},
		{"a/b\\c", "abc"},
		{"hello world", "hello_world"},
		{"data.csv", "data_csv"},
		{"café", "caf_"},
		{"", "dataset"},
		{"//\\", "dataset"},
		{"\x00\x1f", "__"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_neverEscapesBase(t *testing.T) {
	base := string(filepath.Separator) + "workspaces"
	safe := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	rapid.Check(t, func(r *rapid.T) {
		name := rapid.String().Draw(r, "name")
		clean := Sanitize(name)
		if !safe.MatchString(clean) {
			r.Fatalf("Sanitize(%q) = %q contains unsafe characters", name, clean)
		}
		joined := filepath.Join(base, clean)
		rel, err := filepath.Rel(base, joined)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			r.Fatalf("Sanitize(%q) = %q escapes the base directory", name, clean)
		}
	})
}

func TestEnsure_createsFullLayout(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, WithClock(fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))))

	ws, err := m.Ensure("sales", testSession(t))
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if ws.RunID != "20250101_100000" {
		t.Errorf("RunID = %q, want %q", ws.RunID, "20250101_100000")
	}
	want := filepath.Join(base, "sales", "20250101_100000")
	if ws.Root != want {
		t.Errorf("Root = %q, want %q", ws.Root, want)
	}

	for _, sub := range []string{
		"uploads", "data", "models", "reports", "plots", "metrics",
		"indexes", "logs", "tmp", "manifests", "unstructured",
	} {
		info, err := os.Stat(filepath.Join(ws.Root, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("subdirectory %s missing after Ensure", sub)
		}
	}
}

func TestEnsure_sanitizesDatasetName(t *testing.T) {
	base := t.TempDir()
	m := NewManager(base, WithClock(fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))))

	ws, err := m.Ensure("../../etc", testSession(t))
	if err != nil {
		t.Fatalf("Ensure() error: %v", err)
	}
	if ws.Dataset != "____etc" {
		t.Errorf("Dataset = %q, want %q", ws.Dataset, "____etc")
	}
	rel, err := filepath.Rel(base, ws.Root)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Errorf("workspace root %q escapes base %q", ws.Root, base)
	}
}

func TestEnsure_idempotentWithinSecond(t *testing.T) {
	base := t.TempDir()
	clock := fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	m := NewManager(base, WithClock(clock))

	first, err := m.Ensure("sales", testSession(t))
	if err != nil {
		t.Fatalf("first Ensure() error: %v", err)
	}
	second, err := m.Ensure("sales", testSession(t))
	if err != nil {
		t.Fatalf("second Ensure() error: %v", err)
	}
	if first.Root != second.Root {
		t.Errorf("same-second runs diverged: %q vs %q", first.Root, second.Root)
	}
}

func TestEnsure_reusesSessionWorkspace(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager(base, WithClock(func() time.Time { return now }))
	sess := testSession(t)

	first, err := m.Ensure("sales", sess)
	if err != nil {
		t.Fatalf("first Ensure() error: %v", err)
	}

	// Advance the clock; the session should still pin the original run.
	now = now.Add(time.Hour)
	second, err := m.Ensure("sales", sess)
	if err != nil {
		t.Fatalf("second Ensure() error: %v", err)
	}
	if first.Root != second.Root {
		t.Errorf("session reuse failed: %q vs %q", first.Root, second.Root)
	}
}

func TestEnsure_newRunWhenRecordedRootGone(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager(base, WithClock(func() time.Time { return now }))
	sess := testSession(t)

	first, err := m.Ensure("sales", sess)
	if err != nil {
		t.Fatalf("first Ensure() error: %v", err)
	}
	if err := os.RemoveAll(first.Root); err != nil {
		t.Fatal(err)
	}

	now = now.Add(time.Minute)
	second, err := m.Ensure("sales", sess)
	if err != nil {
		t.Fatalf("second Ensure() error: %v", err)
	}
	if second.Root == first.Root {
		t.Error("Ensure should open a new run when the recorded root is gone")
	}
	if second.RunID != "20250101_100100" {
		t.Errorf("RunID = %q, want %q", second.RunID, "20250101_100100")
	}
}

func TestEnsure_nilSession(t *testing.T) {
	m := NewManager(t.TempDir(), WithClock(fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))))
	if _, err := m.Ensure("sales", nil); err != nil {
		t.Fatalf("Ensure(nil session) error: %v", err)
	}
}

func TestLatest_viaPointer(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager(base, WithClock(func() time.Time { return now }))

	if _, err := m.Ensure("sales", testSession(t)); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	newer, err := m.Ensure("sales", testSession(t))
	if err != nil {
		t.Fatal(err)
	}

	latest, err := m.Latest("sales")
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if latest.Root != newer.Root {
		t.Errorf("Latest().Root = %q, want %q", latest.Root, newer.Root)
	}
	if latest.RunID != newer.RunID {
		t.Errorf("Latest().RunID = %q, want %q", latest.RunID, newer.RunID)
	}
}

func TestLatest_scanFallback(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager(base, WithClock(func() time.Time { return now }))

	if _, err := m.Ensure("sales", testSession(t)); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	newer, err := m.Ensure("sales", testSession(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(base, "sales", "latest.yaml")); err != nil {
		t.Fatal(err)
	}
	latest, err := m.Latest("sales")
	if err != nil {
		t.Fatalf("Latest() after pointer removal error: %v", err)
	}
	if latest.Root != newer.Root {
		t.Errorf("scan fallback resolved %q, want %q", latest.Root, newer.Root)
	}
}

func TestLatest_noRuns(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.Latest("nope"); err == nil {
		t.Fatal("Latest() should fail for a dataset with no runs")
	}
}

func TestRuns_sortedAscending(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	m := NewManager(base, WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		if _, err := m.Ensure("sales", testSession(t)); err != nil {
			t.Fatal(err)
		}
		now = now.Add(time.Minute)
	}

	runs, err := m.Runs("sales")
	if err != nil {
		t.Fatalf("Runs() error: %v", err)
	}
	want := []string{"20250101_100000", "20250101_100100", "20250101_100200"}
	if len(runs) != len(want) {
		t.Fatalf("Runs() = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("Runs()[%d] = %q, want %q", i, runs[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	ws := &Workspace{Root: filepath.Join(string(filepath.Separator), "ws", "sales", "20250101_100000")}
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(ws.Root, "plots", "chart.png"), true},
		{filepath.Join(ws.Root, "tmp"), true},
		{ws.Root, false},
		{filepath.Join(ws.Root, "..", "other"), false},
		{string(filepath.Separator) + "elsewhere", false},
	}
	for _, tt := range tests {
		if got := ws.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
