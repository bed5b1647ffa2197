// Package datafile turns loose file references into validated dataset
// metadata. A reference moves through ordered layers: parameter and
// session resolution, existence and bounded recovery search, a
// readability probe, a structural parse by format, and advisory semantic
// checks. Every failure is a *ValidationError naming the layer, what was
// tried, and a recovery hint.
package datafile
