package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [dataset]",
		Short: "Remove old workspace runs (destructive, requires --force)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClean,
	}
	cmd.Flags().Int("keep", 5, "Number of newest runs to keep")
	cmd.Flags().Bool("force", false, "Required to confirm destructive operation")
	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	keep, _ := cmd.Flags().GetInt("keep")
	force, _ := cmd.Flags().GetBool("force")

	var datasetFlag string
	if len(args) == 1 {
		datasetFlag = args[0]
	}

	if !force {
		return fmt.Errorf("clean is destructive; pass --force to confirm")
	}
	if keep < 1 {
		return fmt.Errorf("--keep must be >= 1 (got %d)", keep)
	}

	dataset, err := resolveDataset(a, datasetFlag)
	if err != nil {
		return err
	}
	name := workspace.Sanitize(dataset)

	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))
	runs, err := mgr.Runs(dataset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) <= keep {
		_, _ = fmt.Fprintf(out, "Nothing to clean: %d run(s) for %s, keeping %d.\n", len(runs), name, keep)
		return nil
	}

	datasetDir, err := filepath.Abs(filepath.Join(mgr.Base(), name))
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	if datasetDir == string(filepath.Separator) {
		return fmt.Errorf("refusing to clean root directory: %s", datasetDir)
	}

	// Runs come back oldest first; everything before the kept tail goes.
	for _, run := range runs[:len(runs)-keep] {
		dir := filepath.Join(datasetDir, run)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing run %s: %w", run, err)
		}
		_, _ = fmt.Fprintf(out, "Removed %s\n", dir)
	}
	_, _ = fmt.Fprintf(out, "Kept %d run(s) for %s.\n", keep, name)
	return nil
}
