package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.catalogview/config.yaml with default values.
Set CATALOGVIEW_HOME to use another directory.`,
		Example: `  # Create configuration
  catalogview config init

  # Create configuration, overwriting existing
  catalogview config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// initGlobalConfig creates the config file from defaults.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	path, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	// Check if config already exists and force isn't set
	if !force {
		if _, statErr := os.Stat(path); statErr == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("cannot access config path %s: %w", path, statErr)
		}
	}

	if err = config.New().Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)

	return nil
}
