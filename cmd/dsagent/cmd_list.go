package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/artifact"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List artifacts registered in a dataset run",
		RunE:  runList,
	}
	cmd.Flags().String("dataset", "", "Dataset to list (default: the session's dataset)")
	cmd.Flags().String("run", "", "Run id (default: the latest run)")
	cmd.Flags().String("kind", "", "Only artifacts of this kind")
	cmd.Flags().String("match", "", "Only artifacts whose file name matches this glob")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	datasetFlag, _ := cmd.Flags().GetString("dataset")
	run, _ := cmd.Flags().GetString("run")
	kindStr, _ := cmd.Flags().GetString("kind")
	match, _ := cmd.Flags().GetString("match")
	asJSON, _ := cmd.Flags().GetBool("json")

	dataset, err := resolveDataset(a, datasetFlag)
	if err != nil {
		return err
	}

	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))
	var ws *workspace.Workspace
	if run != "" {
		name := workspace.Sanitize(dataset)
		root := filepath.Join(mgr.Base(), name, run)
		if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
			return fmt.Errorf("run %q not found for dataset %q", run, name)
		}
		ws = &workspace.Workspace{Root: root, Dataset: name, RunID: run}
	} else {
		ws, err = mgr.Latest(dataset)
		if err != nil {
			return err
		}
	}

	records, err := artifact.LoadManifest(artifact.ManifestPath(ws))
	if err != nil {
		return err
	}

	if kindStr != "" {
		kind, perr := workspace.ParseKind(kindStr)
		if perr != nil {
			return perr
		}
		filtered := make([]artifact.Record, 0, len(records))
		for _, rec := range records {
			if rec.Kind == kind {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	if match != "" {
		g, gerr := glob.Compile(match)
		if gerr != nil {
			return fmt.Errorf("invalid --match pattern %q: %w", match, gerr)
		}
		filtered := make([]artifact.Record, 0, len(records))
		for _, rec := range records {
			if g.Match(filepath.Base(rec.Dest)) || (rec.Label != "" && g.Match(rec.Label)) {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	_, _ = fmt.Fprintf(out, "Run %s (%s): %d artifact(s)\n", ws.RunID, ws.Dataset, len(records))
	tbl := ui.NewTable(out, "NAME", "KIND", "VERSION", "SIZE", "CREATED")
	for _, rec := range records {
		tbl.Row(filepath.Base(rec.Dest), rec.Kind, rec.Version, ui.FormatBytes(rec.SizeBytes), ui.FormatTime(rec.CreatedAt))
	}
	return tbl.Flush()
}
