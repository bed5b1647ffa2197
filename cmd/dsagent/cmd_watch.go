package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/artifact"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/datafile"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/metacache"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/watcher"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/workspace"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and validate data files as they settle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	cmd.Flags().Bool("register", false, "Register settled files into the dataset workspace")
	cmd.Flags().String("dataset", "", "Dataset for --register (default: the session's dataset)")
	cmd.Flags().Int("max", 0, "Exit after this many files (0 means run until interrupted)")
	cmd.Flags().Duration("settle", watcher.DefaultSettle, "How long a file must stay quiet before it is picked up")
	cmd.Flags().Bool("json", false, "Output one JSON object per file")
	return cmd
}

type watchEvent struct {
	Path      string              `json:"path"`
	Valid     bool                `json:"valid"`
	Error     string              `json:"error,omitempty"`
	Validated *datafile.Validated `json:"validated,omitempty"`
	Artifact  *artifact.Record    `json:"artifact,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	doRegister, _ := cmd.Flags().GetBool("register")
	datasetFlag, _ := cmd.Flags().GetString("dataset")
	maxFiles, _ := cmd.Flags().GetInt("max")
	settle, _ := cmd.Flags().GetDuration("settle")
	asJSON, _ := cmd.Flags().GetBool("json")

	dir := a.cfg.UploadRoot
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // watched drop dir needs to be world-readable
		return fmt.Errorf("creating watch directory: %w", err)
	}

	var router *artifact.Router
	var ws *workspace.Workspace
	if doRegister {
		dataset, derr := resolveDataset(a, datasetFlag)
		if derr != nil {
			return derr
		}
		ws, err = workspace.NewManager(a.cfg.WorkspacesBase, workspace.WithLogger(a.logger)).Ensure(dataset, a.sess)
		if err != nil {
			return err
		}
		router = artifact.NewRouter(artifact.WithLogger(a.logger))
	}

	w, err := watcher.New(dir, watcher.WithLogger(a.logger), watcher.WithSettle(settle))
	if err != nil {
		return err
	}
	defer w.Close()
	go w.Run()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	pipeline := datafile.NewPipeline(a.cfg.SearchRoots(),
		datafile.WithLogger(a.logger),
		datafile.WithCache(metacache.New[*datafile.Validated](metacache.DefaultTTL)),
		datafile.WithSemanticCheck(datafile.DefaultHeuristics),
	)

	out := cmd.OutOrStdout()
	if !asJSON {
		_, _ = fmt.Fprintf(out, "Watching %s (settle %s). Press Ctrl-C to stop.\n", dir, settle)
	}

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events():
			if !ok {
				return nil
			}
			handleSettledFile(ctx, out, asJSON, pipeline, a, router, ws, path)
			seen++
			if maxFiles > 0 && seen >= maxFiles {
				return nil
			}
		}
	}
}

// handleSettledFile validates one settled file and optionally registers it.
// A bad upload is reported and left in place; the watch loop never stops
// over a single file.
func handleSettledFile(ctx context.Context, out io.Writer, asJSON bool, pipeline *datafile.Pipeline, a *app, router *artifact.Router, ws *workspace.Workspace, path string) {
	ev := watchEvent{Path: path}

	v, err := pipeline.ResolveAndValidate(datafile.Request{ExplicitPath: path, Tool: "watch"}, a.sess)
	if err != nil {
		ev.Error = err.Error()
	} else {
		ev.Valid = true
		ev.Validated = v
		if router != nil {
			if rec, rerr := router.Register(ctx, v.Path, workspace.KindUpload, "", ws); rerr == nil {
				ev.Artifact = &rec
			} else {
				ev.Error = rerr.Error()
			}
		}
	}

	if asJSON {
		data, _ := json.Marshal(ev)
		_, _ = out.Write(append(data, '\n'))
		return
	}

	if ev.Valid {
		_, _ = fmt.Fprintf(out, "%s %s (%d rows, %d columns)\n", ui.Success("valid:"), v.Path, v.RowCount, v.ColumnCount)
		if ev.Artifact != nil {
			_, _ = fmt.Fprintf(out, "  registered → %s\n", ev.Artifact.Dest)
		}
		if ev.Error != "" {
			_, _ = fmt.Fprintln(out, ui.Warn("warning: ")+ev.Error)
		}
	} else {
		_, _ = fmt.Fprintln(out, ui.Error("invalid: ")+ev.Error)
	}
}
