package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

// Router copies produced files into a workspace tree under collision-free
// names and records each one in the run manifest.
type Router struct {
	logger *slog.Logger
	mirror Mirror
	now    func() time.Time

	mu       sync.Mutex
	registry []Record
	dirLocks map[string]*sync.Mutex
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger used for registrations and mirror failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMirror installs an advisory sink notified after each registration.
func WithMirror(m Mirror) Option {
	return func(r *Router) {
		if m != nil {
			r.mirror = m
		}
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// NewRouter returns a router with a no-op mirror and the wall clock.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		logger:   slog.Default(),
		mirror:   NopMirror{},
		now:      time.Now,
		dirLocks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register copies a produced file into the workspace subdirectory for its
// kind, appends the record to the run manifest, and notifies the mirror.
// An empty kind is inferred from the file name. The produced file is left
// in place; the workspace copy is the registered artifact. All failures
// come back as a *RegistrationError, which callers treat as a warning.
func (r *Router) Register(ctx context.Context, produced string, kind workspace.Kind, label string, ws *workspace.Workspace) (Record, error) {
	log := r.logger.With("source", produced, "dataset", ws.Dataset, "run", ws.RunID)

	abs, err := filepath.Abs(produced)
	if err != nil {
		abs = produced
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}
	if !info.Mode().IsRegular() {
		return Record{}, &RegistrationError{Source: produced, Cause: fmt.Errorf("not a regular file")}
	}

	if kind == "" {
		kind = InferKind(abs)
	}
	if !kind.Valid() {
		return Record{}, &RegistrationError{Source: produced, Cause: fmt.Errorf("unknown artifact kind %q", kind)}
	}

	destDir := ws.Dir(kind)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}

	stem, ext := splitName(abs)
	dest, version, f, err := r.claim(destDir, stem, ext)
	if err != nil {
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}
	if !ws.Contains(dest) {
		_ = f.Close()
		_ = os.Remove(dest)
		return Record{}, &RegistrationError{Source: produced, Cause: fmt.Errorf("destination %q escapes workspace root", dest)}
	}

	if err := copyInto(f, abs); err != nil {
		_ = f.Close()
		// A failed copy is terminal; leave no partial artifact behind.
		_ = os.Remove(dest)
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}

	rec := Record{
		ID:        newID(),
		Label:     label,
		Kind:      kind,
		Version:   version,
		Source:    abs,
		Dest:      dest,
		SizeBytes: info.Size(),
		Dataset:   ws.Dataset,
		RunID:     ws.RunID,
		CreatedAt: r.now().UTC(),
	}
	if err := appendManifest(ManifestPath(ws), rec); err != nil {
		// Keep the file set and the manifest consistent with each other.
		_ = os.Remove(dest)
		return Record{}, &RegistrationError{Source: produced, Cause: err}
	}

	r.mu.Lock()
	r.registry = append(r.registry, rec)
	r.mu.Unlock()

	if err := r.mirror.Notify(ctx, rec); err != nil {
		log.Warn("artifact mirror notification failed", "dest", rec.Dest, "err", err)
	}

	log.Info("artifact registered", "kind", rec.Kind, "dest", rec.Dest, "version", rec.Version)
	return rec, nil
}

// Registry returns the records registered through this router in this
// process, oldest first.
func (r *Router) Registry() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.registry)
}

// claim reserves the first free versioned name in destDir by creating the
// file exclusively. The per-directory mutex keeps in-process claims from
// racing each other; O_EXCL keeps the reservation safe against other
// processes. The lock covers only the claim, never the copy.
func (r *Router) claim(destDir, stem, ext string) (string, int, *os.File, error) {
	mu := r.dirLock(destDir)
	mu.Lock()
	defer mu.Unlock()

	for v := 1; ; v++ {
		dest := filepath.Join(destDir, versionedName(stem, ext, v))
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return dest, v, f, nil
		}
		if !os.IsExist(err) {
			return "", 0, nil, err
		}
	}
}

func (r *Router) dirLock(dir string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	mu, ok := r.dirLocks[dir]
	if !ok {
		mu = &sync.Mutex{}
		r.dirLocks[dir] = mu
	}
	return mu
}

func copyInto(dst *os.File, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(dst, src)
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
