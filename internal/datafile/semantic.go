package datafile

import (
	"fmt"
	"strings"
)

// SemanticCheck inspects validated metadata and returns advisory warnings.
// Checks never fail a validation; they only annotate it. Implementations
// that want to sample file contents can reopen v.Path.
type SemanticCheck func(v *Validated) []string

// DefaultHeuristics flags column layouts that usually mean an export or
// parsing mistake rather than real data.
func DefaultHeuristics(v *Validated) []string {
	var warns []string

	blank := 0
	counts := make(map[string]int, len(v.Columns))
	for _, c := range v.Columns {
		if strings.TrimSpace(c) == "" {
			blank++
		}
		counts[c]++
	}
	if blank > 0 {
		warns = append(warns, fmt.Sprintf("%d column name(s) are blank", blank))
	}

	reported := make(map[string]bool)
	for _, c := range v.Columns {
		if counts[c] > 1 && !reported[c] && strings.TrimSpace(c) != "" {
			reported[c] = true
			warns = append(warns, fmt.Sprintf("column name %q appears %d times", c, counts[c]))
		}
	}

	if v.ColumnCount == 1 && strings.ContainsAny(v.Columns[0], ";|\t") {
		warns = append(warns, fmt.Sprintf("single column %q contains delimiter characters, the file may use a different separator", v.Columns[0]))
	}
	return warns
}
