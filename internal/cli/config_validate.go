package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Long: `Validates the effective configuration: the config file with the --config
overlay, CATALOGVIEW_* environment variables and flags applied.`,
		Example: `  # Validate current configuration
  catalogview config validate

  # Validate and show the effective values
  catalogview config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	if err := config.GlobalConfigError(); err != nil {
		return fmt.Errorf("configuration file could not be loaded: %w", err)
	}

	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	cmd.Printf("Configuration is valid\n")

	if verbose {
		cmd.Println()
		return printConfigValues(cmd, cfg)
	}
	return nil
}
