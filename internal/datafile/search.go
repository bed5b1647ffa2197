package datafile

import (
	"os"
	"path/filepath"
)

// searchDepth bounds how many directory levels below each root the recovery
// search may descend. Level 0 is the root itself.
const searchDepth = 2

// searchRoots looks for a file with the given base name under each root in
// order and returns the first match. Roots are tried strictly in the order
// given; within a root, the root's own entry is checked before any
// subdirectory, and subdirectories are visited in name order so the result
// is deterministic.
func searchRoots(name string, roots []string) string {
	for _, root := range roots {
		if root == "" {
			continue
		}
		if found := searchIn(root, name, searchDepth); found != "" {
			return found
		}
	}
	return ""
}

func searchIn(dir, name string, depth int) string {
	candidate := filepath.Join(dir, name)
	if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
		return candidate
	}
	if depth == 0 {
		return ""
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if found := searchIn(filepath.Join(dir, e.Name()), name, depth-1); found != "" {
			return found
		}
	}
	return ""
}
