package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/artifact"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <file>...",
		Short: "Copy produced files into the dataset workspace and record them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRegister,
	}
	cmd.Flags().String("dataset", "", "Dataset to register into (default: the session's dataset)")
	cmd.Flags().String("kind", "", "Artifact kind (default: inferred per file)")
	cmd.Flags().String("label", "", "Label recorded with each artifact")
	cmd.Flags().Int("jobs", 4, "Number of parallel registrations")
	cmd.Flags().String("mirror", "", "Directory to mirror registered artifacts into")
	cmd.Flags().Bool("json", false, "Output records as JSON")
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	datasetFlag, _ := cmd.Flags().GetString("dataset")
	kindStr, _ := cmd.Flags().GetString("kind")
	label, _ := cmd.Flags().GetString("label")
	jobs, _ := cmd.Flags().GetInt("jobs")
	mirrorDir, _ := cmd.Flags().GetString("mirror")
	asJSON, _ := cmd.Flags().GetBool("json")

	if jobs < 1 {
		return fmt.Errorf("--jobs must be >= 1 (got %d)", jobs)
	}
	kind, err := workspace.ParseKind(kindStr)
	if err != nil {
		return err
	}
	dataset, err := resolveDataset(a, datasetFlag)
	if err != nil {
		return err
	}

	mgr := workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger))
	ws, err := mgr.Ensure(dataset, a.sess)
	if err != nil {
		return err
	}

	opts := []artifact.Option{artifact.WithLogger(a.logger)}
	if mirrorDir != "" {
		opts = append(opts, artifact.WithMirror(artifact.DirMirror{Dir: mirrorDir}))
	}
	router := artifact.NewRouter(opts...)

	progress := ui.NewProgress(cmd.ErrOrStderr(), len(args))
	records := runParallelRegister(cmd.Context(), router, ws, args, kind, label, jobs, progress)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	_, _ = fmt.Fprintf(out, "Registered %d of %d file(s) into %s\n", len(records), len(args), ws.Root)
	if failed := progress.Failed(); failed > 0 {
		_, _ = fmt.Fprintln(out, ui.Warn(fmt.Sprintf("%d file(s) could not be registered; see above", failed)))
	}
	return nil
}

// runParallelRegister fans registrations out over a bounded worker pool.
// Failures are reported through the progress display and skipped; by
// contract a failed registration never aborts the batch.
func runParallelRegister(ctx context.Context, router *artifact.Router, ws *workspace.Workspace, files []string, kind workspace.Kind, label string, jobs int, progress *ui.Progress) []artifact.Record {
	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	results := make([]*artifact.Record, len(files))

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec, err := router.Register(ctx, file, kind, label, ws)
			if err != nil {
				progress.Fail(file, err)
				return
			}
			results[i] = &rec
			progress.Done(fmt.Sprintf("%s → %s", file, rec.Dest))
		}(i, file)
	}
	wg.Wait()

	// Keep input order; drop the failures.
	records := make([]artifact.Record, 0, len(files))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}
	return records
}
