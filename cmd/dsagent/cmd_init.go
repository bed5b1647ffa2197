package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dataset]",
		Short: "Create or reuse the workspace for a dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("fresh", false, "Open a new run even if the session already has a workspace")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type initResult struct {
	Root    string            `json:"root"`
	Dataset string            `json:"dataset"`
	RunID   string            `json:"run_id"`
	Subdirs map[string]string `json:"subdirs"`
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	fresh, _ := cmd.Flags().GetBool("fresh")
	asJSON, _ := cmd.Flags().GetBool("json")

	var dataset string
	if len(args) == 1 {
		dataset = args[0]
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("dataset name required when not running interactively")
		}
		dataset, err = promptDataset(a.cfg.WorkspacesBase)
		if err != nil {
			return fmt.Errorf("interactive setup: %w", err)
		}
	}

	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))

	var ws *workspace.Workspace
	if fresh {
		// Skip session reuse so a new run directory is opened, then record it.
		ws, err = mgr.Ensure(dataset, nil)
		if err == nil {
			if serr := a.sess.SetWorkspace(ws.Root, ws.Dataset, ws.RunID); serr != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not record workspace in session: %v\n", serr)
			}
		}
	} else {
		ws, err = mgr.Ensure(dataset, a.sess)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if asJSON {
		subdirs := make(map[string]string, len(workspace.Kinds()))
		for _, k := range workspace.Kinds() {
			subdirs[string(k)] = ws.Dir(k)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(initResult{Root: ws.Root, Dataset: ws.Dataset, RunID: ws.RunID, Subdirs: subdirs})
	}

	_, _ = fmt.Fprintf(out, "Workspace ready: %s\n", ws.Root)
	_, _ = fmt.Fprintf(out, "dataset=%s run=%s\n", ws.Dataset, ws.RunID)
	tbl := ui.NewTable(out, "KIND", "DIR")
	for _, k := range workspace.Kinds() {
		tbl.Row(string(k), ws.Dir(k))
	}
	return tbl.Flush()
}
