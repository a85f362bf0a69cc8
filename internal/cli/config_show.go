package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/catalogview/internal/config"
)

// NewConfigGetCmd prints one effective configuration value.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print a configuration value",
		Example:   `  catalogview config get api.base_url`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := config.GetGlobalConfig().Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}
}

// NewConfigSetCmd writes one value to the config file. Environment overrides
// are not written back.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Example: `  catalogview config set api.base_url https://catalog.example.com
  catalogview config set tree.indent_width 4
  catalogview config set output.default_format json`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile()
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("refusing to save invalid configuration: %w", err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewConfigShowCmd prints the effective configuration.
func NewConfigShowCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Example: `  catalogview config show
  catalogview config show --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if asYAML {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("marshalling configuration: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return printConfigValues(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")

	return cmd
}

func printConfigValues(cmd *cobra.Command, cfg *config.Config) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE")
	fmt.Fprintln(tw, "---\t-----")
	for _, key := range config.Keys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}
	return tw.Flush()
}
