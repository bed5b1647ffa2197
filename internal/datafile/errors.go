package datafile

import (
	"fmt"
	"strings"
)

// FailureKind names the validation layer outcome a caller can match on.
// The set is closed; callers switch exhaustively.
type FailureKind string

const (
	FailureMissingReference FailureKind = "missing_reference"
	FailureNotFound         FailureKind = "not_found"
	FailureUnreadable       FailureKind = "unreadable"
	FailureMalformedFormat  FailureKind = "malformed_format"
	FailureEmptyDataset     FailureKind = "empty_dataset"
)

// ValidationError is the structured terminal result of a failed validation.
// It names the failing layer, what was tried, and a plain-language next step
// so callers never have to invent their own messaging.
type ValidationError struct {
	Kind      FailureKind `json:"kind"`
	Layer     int         `json:"layer"`
	Tool      string      `json:"tool,omitempty"`
	Candidate string      `json:"candidate,omitempty"`
	Searched  []string    `json:"searched,omitempty"`
	Hint      string      `json:"hint"`
	Cause     error       `json:"-"`
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case FailureMissingReference:
		return "no data file referenced and none remembered from this session"
	case FailureNotFound:
		return fmt.Sprintf("file %q not found; searched %s", e.Candidate, strings.Join(e.Searched, ", "))
	case FailureUnreadable:
		return fmt.Sprintf("file %q exists but cannot be read: %v", e.Candidate, e.Cause)
	case FailureMalformedFormat:
		return fmt.Sprintf("file %q is not valid tabular data: %v", e.Candidate, e.Cause)
	case FailureEmptyDataset:
		return fmt.Sprintf("file %q parsed but contains no data rows", e.Candidate)
	default:
		return fmt.Sprintf("validation failed at layer %d for %q", e.Layer, e.Candidate)
	}
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func errMissingReference(tool string) *ValidationError {
	return &ValidationError{
		Kind:  FailureMissingReference,
		Layer: 2,
		Tool:  tool,
		Hint:  "supply a file path explicitly, or validate a file once so it can be recalled automatically",
	}
}

func errNotFound(tool, candidate string, searched []string) *ValidationError {
	return &ValidationError{
		Kind:      FailureNotFound,
		Layer:     4,
		Tool:      tool,
		Candidate: candidate,
		Searched:  searched,
		Hint:      "check the exact filename, or re-upload the file into the upload directory",
	}
}

func errUnreadable(tool, candidate string, cause error) *ValidationError {
	return &ValidationError{
		Kind:      FailureUnreadable,
		Layer:     5,
		Tool:      tool,
		Candidate: candidate,
		Cause:     cause,
		Hint:      "the file exists but could not be opened; check permissions or whether another program holds it",
	}
}

func errMalformed(tool, candidate string, cause error) *ValidationError {
	return &ValidationError{
		Kind:      FailureMalformedFormat,
		Layer:     6,
		Tool:      tool,
		Candidate: candidate,
		Cause:     cause,
		Hint:      "re-export the file as well-formed CSV, Parquet, or delimited text and try again",
	}
}

func errEmptyDataset(tool, candidate string) *ValidationError {
	return &ValidationError{
		Kind:      FailureEmptyDataset,
		Layer:     6,
		Tool:      tool,
		Candidate: candidate,
		Hint:      "the file has a header but no data rows; add rows or point at a different file",
	}
}
