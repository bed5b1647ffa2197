package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/watcher"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the environment for common issues",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ok := true

	// Check the workspaces base is writable.
	_, _ = fmt.Fprintf(out, "Checking workspaces base (%s)... ", a.cfg.WorkspacesBase)
	if werr := checkWritableDir(a.cfg.WorkspacesBase); werr != nil {
		_, _ = fmt.Fprintf(out, "FAILED (%v)\n", werr)
		ok = false
	} else {
		_, _ = fmt.Fprintln(out, "writable")
	}

	// Check the search roots. A missing root is skipped during search, so
	// report it without failing.
	for _, root := range a.cfg.SearchRoots() {
		_, _ = fmt.Fprintf(out, "Checking search root %s... ", root)
		if info, serr := os.Stat(root); serr != nil {
			_, _ = fmt.Fprintln(out, "missing (skipped during search)")
		} else if !info.IsDir() {
			_, _ = fmt.Fprintln(out, "not a directory")
			ok = false
		} else {
			_, _ = fmt.Fprintln(out, "OK")
		}
	}

	// Check the session store.
	_, _ = fmt.Fprintf(out, "Checking session store (%s)... ", a.sess.Path())
	if werr := checkWritableDir(filepath.Dir(a.sess.Path())); werr != nil {
		_, _ = fmt.Fprintf(out, "FAILED (%v)\n", werr)
		ok = false
	} else {
		_, _ = fmt.Fprintln(out, "OK")
	}

	// Check that every dataset's latest pointer still resolves.
	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))
	if names, derr := mgr.Datasets(); derr == nil {
		for _, name := range names {
			_, _ = fmt.Fprintf(out, "Checking latest run for %s... ", name)
			if _, lerr := mgr.Latest(name); lerr != nil {
				_, _ = fmt.Fprintf(out, "FAILED (%v)\n", lerr)
				ok = false
			} else {
				_, _ = fmt.Fprintln(out, "OK")
			}
		}
	}

	// Check that file watching works; inotify limits are the usual culprit.
	_, _ = fmt.Fprint(out, "Checking file watching... ")
	if werr := checkWatcher(a.cfg.UploadRoot); werr != nil {
		_, _ = fmt.Fprintf(out, "FAILED (%v)\n", werr)
		ok = false
	} else {
		_, _ = fmt.Fprintln(out, "OK")
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// checkWritableDir verifies dir exists (creating it if needed) and that a
// file can be written inside it.
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // shared data dir needs to be world-readable
		return err
	}
	probe := filepath.Join(dir, ".dsagent-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return err
	}
	return os.Remove(probe)
}

func checkWatcher(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // watched drop dir needs to be world-readable
		return err
	}
	w, err := watcher.New(dir)
	if err != nil {
		return err
	}
	return w.Close()
}
