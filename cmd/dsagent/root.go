package main

import (
	"fmt"
	"log/slog"

	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/config"
	"github.com/oyesanyf/Data-Science-Agent-sub001/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "dsagent",
		Short:        "File core for data-science agent sessions",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Config file (default: .dsagent.yaml in the working directory)")
	cmd.PersistentFlags().String("base", "", "Base directory for dataset workspaces")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(
		newValidateCmd(),
		newInitCmd(),
		newRegisterCmd(),
		newListCmd(),
		newStatusCmd(),
		newContextCmd(),
		newWatchCmd(),
		newDoctorCmd(),
		newCleanCmd(),
	)

	return cmd
}

// app carries the loaded configuration, session store, and logger that
// every command starts from.
type app struct {
	cfg    config.Config
	sess   *session.Context
	logger *slog.Logger
}

// loadApp resolves flags, config file, and environment into a ready app.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	base, _ := cmd.Flags().GetString("base")
	debug, _ := cmd.Flags().GetBool("debug")

	v := viper.New()
	if base != "" {
		v.Set("workspaces_base", base)
	}
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	cfg, err = cfg.Resolve()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	sess, err := session.Load(cfg.SessionPath())
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, sess: sess, logger: logger}, nil
}

// resolveDataset picks the dataset a command operates on: the flag value
// when given, otherwise the dataset recorded in the session.
func resolveDataset(a *app, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if name, ok := a.sess.DatasetName(); ok {
		return name, nil
	}
	return "", fmt.Errorf("no dataset given and none recorded in the session; run dsagent init or pass --dataset")
}
