package datafile

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// textDelimiters are the candidates tried when sniffing a delimited text
// file, in tie-break order.
var textDelimiters = []rune{'\t', ';', '|', ','}

// probeText handles .txt and friends by sniffing the delimiter from the
// header line and then parsing the file like a CSV with that delimiter.
func probeText(path string) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	if strings.TrimSpace(first) == "" {
		return nil, 0, errors.New("file is empty, no header row")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	return countDelimited(f, sniffDelimiter(first))
}

// sniffDelimiter picks the candidate that occurs most often in the header
// line. A line containing none of them is a single-column file, for which
// any delimiter will do.
func sniffDelimiter(line string) rune {
	best, bestCount := ',', 0
	for _, d := range textDelimiters {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
