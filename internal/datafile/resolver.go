package datafile

import (
	"strings"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/session"
)

// Request describes one validation attempt on behalf of a tool.
type Request struct {
	// ExplicitPath is the caller-supplied path. Empty means "use whatever
	// the session remembers".
	ExplicitPath string
	// Tool names the operation asking for the file; it appears in errors
	// and logs so multi-step failures stay attributable.
	Tool string
	// RequireRows upgrades a zero-row file from a warning to a hard
	// EmptyDataset failure. Training and profiling set it; previews don't.
	RequireRows bool
}

// Resolve picks the candidate path for a request without touching the
// filesystem: the explicit path if one was given, otherwise the session's
// last validated path. The second return is false when neither exists.
func Resolve(explicit string, sess *session.Context) (string, bool) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, true
	}
	if sess != nil {
		if p, ok := sess.LastValidatedPath(); ok {
			return p, true
		}
	}
	return "", false
}
