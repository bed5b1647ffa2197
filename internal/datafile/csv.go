package datafile

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// probeCSV parses the whole file as comma-separated values, returning the
// header columns and the count of data rows. Quoting errors fail the probe;
// ragged row widths do not, since those are a semantic concern rather than
// a structural one.
func probeCSV(path string) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return countDelimited(f, ',')
}

func countDelimited(r io.Reader, comma rune) ([]string, int64, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, errors.New("file is empty, no header row")
	}
	if err != nil {
		return nil, 0, err
	}
	cols := append([]string(nil), header...)
	// Spreadsheet exports often lead with a UTF-8 byte order mark.
	cols[0] = strings.TrimPrefix(cols[0], "﻿")

	var rows int64
	for {
		if _, err := cr.Read(); err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, err
		}
		rows++
	}
	return cols, rows, nil
}
