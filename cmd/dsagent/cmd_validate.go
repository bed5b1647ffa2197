package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/datafile"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/metacache"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/ui"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a data file and remember it for the session",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}
	cmd.Flags().String("tool", "validate", "Name of the operation requesting the file")
	cmd.Flags().Bool("require-rows", false, "Fail when the file parses but has no data rows")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	tool, _ := cmd.Flags().GetString("tool")
	requireRows, _ := cmd.Flags().GetBool("require-rows")
	asJSON, _ := cmd.Flags().GetBool("json")

	var explicit string
	if len(args) == 1 {
		explicit = args[0]
	}

	pipeline := datafile.NewPipeline(a.cfg.SearchRoots(),
		datafile.WithLogger(a.logger),
		datafile.WithCache(metacache.New[*datafile.Validated](metacache.DefaultTTL)),
		datafile.WithSemanticCheck(datafile.DefaultHeuristics),
	)

	out := cmd.OutOrStdout()
	v, err := pipeline.ResolveAndValidate(datafile.Request{
		ExplicitPath: explicit,
		Tool:         tool,
		RequireRows:  requireRows,
	}, a.sess)
	if err != nil {
		var verr *datafile.ValidationError
		if errors.As(err, &verr) {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				_ = enc.Encode(struct {
					Error   *datafile.ValidationError `json:"error"`
					Message string                    `json:"message"`
				}{verr, verr.Error()})
				return err
			}
			if verr.Hint != "" {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), ui.Muted("hint: "+verr.Hint))
			}
		}
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	_, _ = fmt.Fprintf(out, "%s %s\n", ui.Success("ok:"), v.Path)
	_, _ = fmt.Fprintf(out, "format=%s rows=%d columns=%d size=%s\n",
		v.Format, v.RowCount, v.ColumnCount, ui.FormatBytes(v.SizeBytes))
	if len(v.Columns) > 0 {
		_, _ = fmt.Fprintf(out, "columns: %s\n", strings.Join(v.Columns, ", "))
	}
	for _, w := range v.Warnings {
		_, _ = fmt.Fprintln(out, ui.Warn("warning: ")+w)
	}
	return nil
}
