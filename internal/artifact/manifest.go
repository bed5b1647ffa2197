package artifact

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
)

// manifestName is the file appended to inside the manifests subdirectory.
const manifestName = "manifest.jsonl"

// ManifestPath returns the manifest location for a workspace run.
func ManifestPath(ws *workspace.Workspace) string {
	return filepath.Join(ws.Dir(workspace.KindManifest), manifestName)
}

// appendManifest adds one record as a JSON line. Each record is written in
// a single Write call, so appends from this process never interleave
// partial lines.
func appendManifest(path string, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadManifest reads every record from a manifest file, oldest first. A
// missing file is an empty manifest, not an error.
func LoadManifest(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("manifest %s: malformed line: %w", path, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return records, nil
}
