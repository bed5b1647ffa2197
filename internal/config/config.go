// Package config holds the host-supplied settings consumed by the dsagent
// core: the roots searched during file validation and the base directory all
// dataset workspaces live under. The core consumes these paths, it never
// chooses them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every directory and switch the core consumes.
type Config struct {
	// UploadRoot is where user-supplied files land and the first root
	// searched when a candidate path does not exist verbatim.
	UploadRoot string `mapstructure:"upload_root" yaml:"upload_root"`

	// DataRoot and DatasetRoot are the second and third search roots.
	DataRoot    string `mapstructure:"data_root" yaml:"data_root"`
	DatasetRoot string `mapstructure:"dataset_root" yaml:"dataset_root"`

	// WorkspacesBase is the directory all per-dataset run trees are
	// created under.
	WorkspacesBase string `mapstructure:"workspaces_base" yaml:"workspaces_base"`

	// SessionFile overrides the default session store location
	// (<workspaces_base>/.dsagent/session.yaml).
	SessionFile string `mapstructure:"session_file" yaml:"session_file"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// Defaults returns the configuration used when nothing is supplied.
// Paths are relative to the working directory until Resolve is called.
func Defaults() Config {
	return Config{
		UploadRoot:     "uploads",
		DataRoot:       "data",
		DatasetRoot:    "datasets",
		WorkspacesBase: "workspaces",
	}
}

// Load reads configuration through v in precedence order: values already
// bound to v (flags), then DSAGENT_* environment variables, then an optional
// config file (explicit path, or ./.dsagent.yaml when present), on top of
// Defaults. A missing config file is not an error.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	d := Defaults()
	v.SetDefault("upload_root", d.UploadRoot)
	v.SetDefault("data_root", d.DataRoot)
	v.SetDefault("dataset_root", d.DatasetRoot)
	v.SetDefault("workspaces_base", d.WorkspacesBase)
	v.SetDefault("session_file", d.SessionFile)
	v.SetDefault("debug", d.Debug)

	v.SetEnvPrefix("DSAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else if _, err := os.Stat(".dsagent.yaml"); err == nil {
		v.SetConfigFile(".dsagent.yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config .dsagent.yaml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.WorkspacesBase == "" {
		return Config{}, fmt.Errorf("config: workspaces_base is required")
	}
	return cfg, nil
}

// Resolve absolutizes every path in the config. Empty optional paths stay
// empty.
func (c Config) Resolve() (Config, error) {
	out := c
	for _, p := range []*string{&out.UploadRoot, &out.DataRoot, &out.DatasetRoot, &out.WorkspacesBase, &out.SessionFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return Config{}, fmt.Errorf("resolving path %s: %w", *p, err)
		}
		*p = abs
	}
	return out, nil
}

// SessionPath returns the session store location, defaulting to a dot
// directory under the workspaces base so the store travels with the data.
func (c Config) SessionPath() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}
	return filepath.Join(c.WorkspacesBase, ".dsagent", "session.yaml")
}

// SearchRoots returns the ordered directories the validator searches when a
// candidate path does not exist verbatim: upload root, data root, dataset
// root, then the working directory. Order is part of the contract; the first
// match wins.
func (c Config) SearchRoots() []string {
	roots := []string{c.UploadRoot, c.DataRoot, c.DatasetRoot}
	if wd, err := os.Getwd(); err == nil {
		roots = append(roots, wd)
	}
	return roots
}
