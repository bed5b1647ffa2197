package artifact

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

// Record describes one registered artifact. Records are append-only: once
// written to a manifest they are never changed; a correction registers a
// new version instead.
type Record struct {
	ID        string         `json:"id"`
	Label     string         `json:"label,omitempty"`
	Kind      workspace.Kind `json:"kind"`
	Version   int            `json:"version"`
	Source    string         `json:"source_path"`
	Dest      string         `json:"dest_path"`
	SizeBytes int64          `json:"size_bytes"`
	Dataset   string         `json:"dataset"`
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
}

func newID() string { return uuid.NewString() }

// RegistrationError reports a failed registration. Producing operations
// attach it to their own result as a warning and keep going; the produced
// file stays wherever the producer wrote it.
type RegistrationError struct {
	Source string
	Cause  error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("could not register artifact %q: %v", e.Source, e.Cause)
}

func (e *RegistrationError) Unwrap() error { return e.Cause }
