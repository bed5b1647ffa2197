package datafile

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/metacache"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/session"
)

// Validated is the metadata contract a successful validation hands to
// downstream tooling.
type Validated struct {
	Path        string   `json:"path"`
	Format      Format   `json:"format"`
	RowCount    int64    `json:"row_count"`
	ColumnCount int      `json:"column_count"`
	Columns     []string `json:"columns"`
	SizeBytes   int64    `json:"size_bytes"`
	Empty       bool     `json:"empty,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Pipeline runs the layered checks that turn a loose file reference into
// Validated metadata or a ValidationError.
type Pipeline struct {
	roots    []string
	logger   *slog.Logger
	cache    *metacache.Cache[*Validated]
	semantic SemanticCheck
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for layer transitions and failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCache installs a metadata cache consulted before re-parsing files.
func WithCache(c *metacache.Cache[*Validated]) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithSemanticCheck installs an advisory hook run after structural
// validation. Off unless a caller opts in; DefaultHeuristics provides the
// standard column checks.
func WithSemanticCheck(fn SemanticCheck) Option {
	return func(p *Pipeline) { p.semantic = fn }
}

// NewPipeline returns a pipeline whose recovery search tries the given
// roots in order.
func NewPipeline(searchRoots []string, opts ...Option) *Pipeline {
	p := &Pipeline{
		roots:  searchRoots,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Roots returns the recovery search roots in the order they are tried.
func (p *Pipeline) Roots() []string { return p.roots }

// ResolveAndValidate resolves a file reference and runs every validation
// layer against it. On success the session's last validated path is
// updated, so the next request can omit the path. All failures come back
// as a *ValidationError.
func (p *Pipeline) ResolveAndValidate(req Request, sess *session.Context) (*Validated, error) {
	log := p.logger.With("tool", req.Tool)

	candidate, ok := Resolve(req.ExplicitPath, sess)
	if !ok {
		log.Warn("validation failed", "kind", FailureMissingReference)
		return nil, errMissingReference(req.Tool)
	}

	resolved, ok := p.locate(candidate)
	if !ok {
		log.Warn("validation failed", "kind", FailureNotFound, "candidate", candidate)
		return nil, errNotFound(req.Tool, candidate, p.roots)
	}
	if resolved != candidate {
		log.Debug("recovered file by name", "candidate", candidate, "resolved", resolved)
	}

	abs, err := filepath.Abs(resolved)
	if err != nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil {
		log.Warn("validation failed", "kind", FailureUnreadable, "path", abs, "err", err)
		return nil, errUnreadable(req.Tool, abs, err)
	}
	if err := readProbe(abs); err != nil {
		log.Warn("validation failed", "kind", FailureUnreadable, "path", abs, "err", err)
		return nil, errUnreadable(req.Tool, abs, err)
	}

	key := metacache.Key(abs, info)
	if v, ok := p.cache.Get(key); ok {
		log.Debug("metadata cache hit", "path", abs)
		return p.finish(req, sess, v, log)
	}

	format, known := formatFor(abs)
	if !known {
		err := fmt.Errorf("unsupported extension %q, expected .csv, .parquet, or delimited text", filepath.Ext(abs))
		log.Warn("validation failed", "kind", FailureMalformedFormat, "path", abs, "err", err)
		return nil, errMalformed(req.Tool, abs, err)
	}
	cols, rows, err := probeFormat(format, abs)
	if err != nil {
		log.Warn("validation failed", "kind", FailureMalformedFormat, "path", abs, "format", format, "err", err)
		return nil, errMalformed(req.Tool, abs, err)
	}

	v := &Validated{
		Path:        abs,
		Format:      format,
		RowCount:    rows,
		ColumnCount: len(cols),
		Columns:     cols,
		SizeBytes:   info.Size(),
		Empty:       rows == 0,
	}
	p.cache.Set(key, v)
	return p.finish(req, sess, v, log)
}

// finish applies the per-request layers that must run even on a cache hit:
// the zero-row policy, the semantic checks, and the session update.
func (p *Pipeline) finish(req Request, sess *session.Context, v *Validated, log *slog.Logger) (*Validated, error) {
	if v.Empty && req.RequireRows {
		log.Warn("validation failed", "kind", FailureEmptyDataset, "path", v.Path)
		return nil, errEmptyDataset(req.Tool, v.Path)
	}

	// Callers get their own copy; the cached value stays untouched.
	out := *v
	out.Warnings = nil
	if v.Empty {
		out.Warnings = append(out.Warnings, "file parsed but has zero data rows")
	}
	if p.semantic != nil {
		out.Warnings = append(out.Warnings, p.semantic(&out)...)
	}

	if sess != nil {
		if err := sess.SetLastValidatedPath(out.Path); err != nil {
			log.Warn("could not record validated path in session", "err", err)
		}
	}
	log.Info("file validated",
		"path", out.Path,
		"format", out.Format,
		"rows", out.RowCount,
		"columns", out.ColumnCount,
	)
	return &out, nil
}

// locate resolves a candidate to an existing regular file: the candidate
// itself when it exists, otherwise the first bounded-search hit for its
// base name.
func (p *Pipeline) locate(candidate string) (string, bool) {
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate, true
	}
	if found := searchRoots(filepath.Base(candidate), p.roots); found != "" {
		return found, true
	}
	return "", false
}

// readProbe opens the file and reads its first kilobyte so permission and
// I/O problems surface before any parser touches the file.
func readProbe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	buf := make([]byte, 1024)
	if _, err := f.Read(buf); err != nil && err != io.EOF {
		return err
	}
	return nil
}
