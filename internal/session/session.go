// Package session implements the per-session context store shared by the
// validator, the workspace manager, and the artifact router. It holds the
// last validated file, the active workspace, and the dataset name, persisted
// as a small YAML file so state survives across invocations within a working
// session. A Context is always passed explicitly; there are no globals.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// State is the persisted shape of a session context. A missing file loads as
// the zero State: every lookup then reports "not set" rather than erroring.
type State struct {
	LastValidatedPath string    `yaml:"last_validated_path,omitempty" json:"last_validated_path,omitempty"`
	WorkspaceRoot     string    `yaml:"workspace_root,omitempty" json:"workspace_root,omitempty"`
	DatasetName       string    `yaml:"dataset_name,omitempty" json:"dataset_name,omitempty"`
	RunID             string    `yaml:"run_id,omitempty" json:"run_id,omitempty"`
	UpdatedAt         time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Context is a handle to one session's mutable state. Setters persist
// immediately; concurrent writers race under a documented last-writer-wins
// rule, acceptable because every field is a convenience cache.
type Context struct {
	mu    sync.Mutex
	path  string
	state State
}

// Load opens the session store at path. A missing file yields an empty
// context bound to that path; a corrupt file is an error.
func Load(path string) (*Context, error) {
	c := &Context{path: path}
	data, err := os.ReadFile(path) //nolint:gosec // path is the host-configured session store
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session store: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.state); err != nil {
		return nil, fmt.Errorf("parsing session store: %w", err)
	}
	return c, nil
}

// Path returns the on-disk location of this context.
func (c *Context) Path() string { return c.path }

// LastValidatedPath returns the most recently validated absolute path.
func (c *Context) LastValidatedPath() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.LastValidatedPath, c.state.LastValidatedPath != ""
}

// SetLastValidatedPath records a successfully validated absolute path.
// Only the validator pipeline calls this, and only after the structure
// layer passes, so a bad path never poisons later auto-recovery.
func (c *Context) SetLastValidatedPath(p string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastValidatedPath = p
	return c.save()
}

// Workspace returns the active workspace root, dataset, and run id.
func (c *Context) Workspace() (root, dataset, runID string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.WorkspaceRoot, c.state.DatasetName, c.state.RunID, c.state.WorkspaceRoot != ""
}

// SetWorkspace records the active workspace. Only the workspace manager
// calls this, on ensure.
func (c *Context) SetWorkspace(root, dataset, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.WorkspaceRoot = root
	c.state.DatasetName = dataset
	c.state.RunID = runID
	return c.save()
}

// DatasetName returns the active dataset name.
func (c *Context) DatasetName() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.DatasetName, c.state.DatasetName != ""
}

// Snapshot returns a copy of the current state for display.
func (c *Context) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Clear resets every field and persists the empty state.
func (c *Context) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
	return c.save()
}

// save persists the state atomically: write a temp file in the same
// directory, then rename over the store. Callers hold c.mu.
func (c *Context) save() error {
	c.state.UpdatedAt = time.Now().UTC()
	data, err := yaml.Marshal(&c.state)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // session dir sits under the workspace base
		return fmt.Errorf("creating session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.yaml")
	if err != nil {
		return fmt.Errorf("creating session temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing session temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing session store: %w", err)
	}
	return nil
}
