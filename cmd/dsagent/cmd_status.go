package main

import (
	"encoding/json"
	"fmt"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/artifact"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show datasets, runs, and the current session",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type datasetStatus struct {
	Dataset   string `json:"dataset"`
	Runs      int    `json:"runs"`
	LatestRun string `json:"latest_run,omitempty"`
	Artifacts int    `json:"artifacts"`
	Current   bool   `json:"current"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))
	names, err := mgr.Datasets()
	if err != nil {
		return err
	}
	current, _ := a.sess.DatasetName()

	statuses := make([]datasetStatus, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, collectDatasetStatus(mgr, name, current))
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	if len(statuses) == 0 {
		_, _ = fmt.Fprintln(out, "No datasets yet. Run dsagent init to create one.")
		return nil
	}

	tbl := ui.NewTable(out, "DATASET", "RUNS", "LATEST", "ARTIFACTS", "CURRENT")
	for _, s := range statuses {
		mark := ""
		if s.Current {
			mark = "*"
		}
		tbl.Row(s.Dataset, s.Runs, s.LatestRun, s.Artifacts, mark)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if path, ok := a.sess.LastValidatedPath(); ok {
		_, _ = fmt.Fprintf(out, "\nlast validated file: %s\n", path)
	}
	return nil
}

func collectDatasetStatus(mgr *workspace.Manager, name, current string) datasetStatus {
	s := datasetStatus{Dataset: name}
	if current != "" && name == workspace.Sanitize(current) {
		s.Current = true
	}

	runs, err := mgr.Runs(name)
	if err != nil {
		return s
	}
	s.Runs = len(runs)

	ws, err := mgr.Latest(name)
	if err != nil {
		return s
	}
	s.LatestRun = ws.RunID

	if records, err := artifact.LoadManifest(artifact.ManifestPath(ws)); err == nil {
		s.Artifacts = len(records)
	}
	return s
}
