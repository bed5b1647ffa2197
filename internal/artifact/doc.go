// Package artifact routes files produced by operations into the right
// workspace subdirectory. A registration classifies the file by declared
// or inferred kind, claims a collision-free versioned name, copies the
// file in, appends a record to the run's append-only manifest, and
// notifies an optional mirror sink. Registration failures are warnings by
// contract; they never fail the operation that produced the file.
package artifact
