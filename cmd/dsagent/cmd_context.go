package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/spf13/cobra"
)

func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show or clear what the session remembers",
		RunE:  runContext,
	}
	cmd.Flags().Bool("clear", false, "Forget the remembered file and workspace")
	cmd.Flags().String("set-file", "", "Set the remembered data file without validating it")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runContext(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	doClear, _ := cmd.Flags().GetBool("clear")
	setFile, _ := cmd.Flags().GetString("set-file")
	asJSON, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()

	if doClear {
		if err := a.sess.Clear(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Session cleared.")
		return nil
	}

	if setFile != "" {
		abs, aerr := filepath.Abs(setFile)
		if aerr != nil {
			return fmt.Errorf("resolving path: %w", aerr)
		}
		if _, serr := os.Stat(abs); serr != nil {
			return fmt.Errorf("cannot remember %s: %w", abs, serr)
		}
		if err := a.sess.SetLastValidatedPath(abs); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Remembering %s\n", abs)
		return nil
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a.sess.Snapshot())
	}

	if path, ok := a.sess.LastValidatedPath(); ok {
		_, _ = fmt.Fprintf(out, "last validated file: %s\n", path)
	} else {
		_, _ = fmt.Fprintln(out, "last validated file: (none)")
	}
	if root, dataset, runID, ok := a.sess.Workspace(); ok {
		_, _ = fmt.Fprintf(out, "workspace: %s (dataset=%s run=%s)\n", root, dataset, runID)
	} else {
		_, _ = fmt.Fprintln(out, "workspace: (none)")
	}
	_, _ = fmt.Fprintln(out, ui.Muted("session file: "+a.sess.Path()))
	return nil
}
