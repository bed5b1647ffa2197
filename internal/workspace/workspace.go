package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/session"
	"gopkg.in/yaml.v3"
)

// runIDLayout is the timestamp format for run identifiers: YYYYMMDD_HHMMSS.
// Lexicographic order equals chronological order, which Runs relies on.
const runIDLayout = "20060102_150405"

var runIDPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// Workspace is the directory tree dedicated to one (dataset, run) pair.
// Immutable after creation; the manager never deletes one.
type Workspace struct {
	Root    string
	Dataset string
	RunID   string
}

// Dir returns the absolute subdirectory for the given artifact kind.
func (w *Workspace) Dir(k Kind) string {
	return filepath.Join(w.Root, k.Subdir())
}

// Contains reports whether path lies strictly inside the workspace root.
func (w *Workspace) Contains(path string) bool {
	rel, err := filepath.Rel(w.Root, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// latestPointer is the per-dataset "current run" indirection, stored as
// latest.yaml next to the run directories.
type latestPointer struct {
	RunID     string    `yaml:"run_id"`
	Root      string    `yaml:"root"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Manager creates and resolves workspaces under a single base directory.
type Manager struct {
	base   string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the run-id clock. Tests pin it to get stable ids.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a Manager rooted at base.
func NewManager(base string, opts ...Option) *Manager {
	m := &Manager{base: base, now: time.Now, logger: slog.Default()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Base returns the workspaces base directory.
func (m *Manager) Base() string { return m.base }

// Ensure returns the workspace for dataset, creating the run tree if needed.
// Within one session the previously ensured workspace is reused instead of
// opening a new run; within one second Ensure is idempotent because the run
// id repeats and directory creation is create-if-missing. On success the
// session records the workspace so later calls and other components can
// recover it.
func (m *Manager) Ensure(dataset string, sess *session.Context) (*Workspace, error) {
	name := Sanitize(dataset)

	if sess != nil {
		if root, ds, run, ok := sess.Workspace(); ok && ds == name {
			if info, err := os.Stat(root); err == nil && info.IsDir() {
				return &Workspace{Root: root, Dataset: ds, RunID: run}, nil
			}
		}
	}

	runID := m.now().Format(runIDLayout)
	ws := &Workspace{
		Root:    filepath.Join(m.base, name, runID),
		Dataset: name,
		RunID:   runID,
	}

	for _, k := range Kinds() {
		if err := os.MkdirAll(ws.Dir(k), 0755); err != nil { //nolint:gosec // run tree is shared with other local tooling
			return nil, fmt.Errorf("creating workspace directory %s: %w", ws.Dir(k), err)
		}
	}

	if err := m.writeLatest(name, ws); err != nil {
		return nil, err
	}

	if sess != nil {
		if err := sess.SetWorkspace(ws.Root, name, runID); err != nil {
			return nil, fmt.Errorf("recording workspace in session: %w", err)
		}
	}

	m.logger.Debug("workspace ensured", "dataset", name, "run_id", runID, "root", ws.Root)
	return ws, nil
}

// Latest resolves the most recently created workspace for dataset, first via
// the latest.yaml pointer and falling back to a scan of run directories when
// the pointer is missing or stale.
func (m *Manager) Latest(dataset string) (*Workspace, error) {
	name := Sanitize(dataset)
	datasetDir := filepath.Join(m.base, name)

	if lp, err := readLatest(filepath.Join(datasetDir, "latest.yaml")); err == nil {
		if info, statErr := os.Stat(lp.Root); statErr == nil && info.IsDir() {
			return &Workspace{Root: lp.Root, Dataset: name, RunID: lp.RunID}, nil
		}
	}

	runs, err := m.Runs(name)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no workspace runs found for dataset %q under %s", name, datasetDir)
	}
	run := runs[len(runs)-1]
	return &Workspace{
		Root:    filepath.Join(datasetDir, run),
		Dataset: name,
		RunID:   run,
	}, nil
}

// Runs lists run ids for dataset in ascending (oldest first) order.
func (m *Manager) Runs(dataset string) ([]string, error) {
	name := Sanitize(dataset)
	entries, err := os.ReadDir(filepath.Join(m.base, name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing runs for %q: %w", name, err)
	}
	var runs []string
	for _, e := range entries {
		if e.IsDir() && runIDPattern.MatchString(e.Name()) {
			runs = append(runs, e.Name())
		}
	}
	sort.Strings(runs)
	return runs, nil
}

// Datasets lists dataset names that have at least one run under the base.
func (m *Manager) Datasets() ([]string, error) {
	entries, err := os.ReadDir(m.base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (m *Manager) writeLatest(name string, ws *Workspace) error {
	lp := latestPointer{RunID: ws.RunID, Root: ws.Root, UpdatedAt: m.now().UTC()}
	data, err := yaml.Marshal(&lp)
	if err != nil {
		return fmt.Errorf("marshaling latest pointer: %w", err)
	}
	path := filepath.Join(m.base, name, "latest.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // pointer file is read by other local tooling
		return fmt.Errorf("writing latest pointer: %w", err)
	}
	return nil
}

func readLatest(path string) (*latestPointer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // pointer path is built from the workspace base
	if err != nil {
		return nil, fmt.Errorf("reading latest pointer: %w", err)
	}
	var lp latestPointer
	if err := yaml.Unmarshal(data, &lp); err != nil {
		return nil, fmt.Errorf("parsing latest pointer: %w", err)
	}
	return &lp, nil
}

// Sanitize maps an arbitrary dataset name onto a safe directory name: path
// separators are dropped, every other character outside [A-Za-z0-9_-]
// becomes an underscore, and an empty result falls back to "dataset". The
// result can never escape the workspaces base.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			// dropped, not replaced
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "dataset"
	}
	return b.String()
}
