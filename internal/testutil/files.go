package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// WriteFile writes raw content under dir, creating parent directories as
// needed. name may contain path separators. Returns the file path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// WriteCSV writes a CSV file with the given header line and data rows.
// Rows are written verbatim, so tests can produce malformed files too.
func WriteCSV(t *testing.T, dir, name, header string, rows ...string) string {
	t.Helper()
	lines := append([]string{header}, rows...)
	return WriteFile(t, dir, name, strings.Join(lines, "\n")+"\n")
}

// ParquetRow is the fixed schema WriteParquet fixtures use.
type ParquetRow struct {
	ID    int64   `parquet:"id"`
	Name  string  `parquet:"name"`
	Score float64 `parquet:"score"`
}

// WriteParquet writes a parquet file holding the given rows. An empty
// slice still produces a well-formed file with a schema and zero rows.
func WriteParquet(t *testing.T, dir, name string, rows []ParquetRow) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[ParquetRow](f)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}
