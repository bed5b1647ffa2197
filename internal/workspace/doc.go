// Package workspace creates and resolves the per-dataset, per-run directory
// trees that artifacts are routed into. It provides the Manager that ensures
// the fixed subdirectory layout on disk, the Kind enum mapping artifact
// classes to subdirectories, and the per-dataset "latest run" pointer.
package workspace
