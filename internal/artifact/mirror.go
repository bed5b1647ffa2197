package artifact

import (
	"context"
	"os"
	"path/filepath"
)

// Mirror receives successful registrations as advisory notifications, for
// example a UI-facing artifact panel. Local registration is the source of
// truth; the router logs and swallows any mirror error.
type Mirror interface {
	Notify(ctx context.Context, rec Record) error
}

// NopMirror is the sink used when no mirror is configured.
type NopMirror struct{}

func (NopMirror) Notify(context.Context, Record) error { return nil }

// DirMirror copies each registered artifact into a flat external
// directory. Name collisions overwrite: the mirror is a convenience view,
// not a second store of record.
type DirMirror struct {
	Dir string
}

func (m DirMirror) Notify(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return err
	}
	return copyFile(rec.Dest, filepath.Join(m.Dir, filepath.Base(rec.Dest)))
}
