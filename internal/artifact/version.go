package artifact

import (
	"fmt"
	"path/filepath"
	"strings"
)

// versionedName renders the destination file name for a version. Version 1
// keeps the original name; later versions insert _v2, _v3, and so on
// before the extension.
func versionedName(stem, ext string, version int) string {
	if version <= 1 {
		return stem + ext
	}
	return fmt.Sprintf("%s_v%d%s", stem, version, ext)
}

// splitName breaks a produced path into the stem and extension used for
// versioning. A name that is all extension, like ".env", gets the stem
// "artifact" so version suffixes stay readable.
func splitName(path string) (stem, ext string) {
	base := filepath.Base(path)
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "artifact"
	}
	return stem, ext
}
