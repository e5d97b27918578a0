package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional ~/.permastore.yaml client config.
type fileConfig struct {
	Target string `yaml:"target"`
	Token  string `yaml:"token"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".permastore.yaml")
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfigFile fills unset flags from the config file. Explicit flags
// always win; a missing default config file is not an error.
func applyConfigFile(cmd *cobra.Command, opts *RootOptions) error {
	path := opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if !cmd.Flags().Changed("target") && cfg.Target != "" {
		opts.Target = cfg.Target
	}
	if !cmd.Flags().Changed("token") && cfg.Token != "" {
		opts.Token = cfg.Token
	}
	return nil
}
