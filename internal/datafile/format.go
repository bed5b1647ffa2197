package datafile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies which structural probe handled a file.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatText    Format = "text"
)

// formatFor maps a file extension to the probe used on it. Delimited text
// covers .txt as well as the tab-separated variants; the delimiter is
// sniffed from the header line either way.
func formatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".parquet":
		return FormatParquet, true
	case ".txt", ".tsv", ".tab":
		return FormatText, true
	}
	return "", false
}

func probeFormat(format Format, path string) ([]string, int64, error) {
	switch format {
	case FormatCSV:
		return probeCSV(path)
	case FormatParquet:
		return probeParquet(path)
	case FormatText:
		return probeText(path)
	default:
		return nil, 0, fmt.Errorf("no probe for format %q", format)
	}
}
