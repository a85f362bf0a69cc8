package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/catalogview/internal/cache"
	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/internal/logging"
)

// Persistent flag names.
const (
	flagDebug            = "debug"
	flagConfig           = "config"
	flagAPIURL           = "api-url"
	flagNoCache          = "no-cache"
	flagCacheTTL         = "cache-ttl"
	flagSkipVersionCheck = "skip-version-check"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// stdoutIsTerminal decides whether the bare root command opens the browser.
//
//nolint:gochecknoglobals // Swapped in tests.
var stdoutIsTerminal = func() bool { return isTerminal(os.Stdout) }

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the catalogview CLI.
// Without a subcommand it opens the interactive browser on a terminal and
// prints the root products otherwise.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "catalogview",
		Short:   "Browse the product catalog from the terminal",
		Long:    "catalogview: explore a hierarchical product catalog, product details and reviews",
		Version: ver,
		Example: rootCmdExample,
		// main prints the error once.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfigLayers(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stdoutIsTerminal() {
				return runBrowse(cmd)
			}
			return runProductsTree(cmd, treeOptions{depth: 0, output: config.GetOutputFormat("")})
		},
	}

	pf := cmd.PersistentFlags()
	pf.Bool(flagDebug, false, "enable debug logging")
	pf.String(flagConfig, "", "YAML file merged over the config file (whole sections replace)")
	pf.String(flagAPIURL, "", "catalog API base URL (overrides config and CATALOGVIEW_API_URL)")
	pf.Bool(flagNoCache, false, "disable the on-disk response cache")
	pf.String(flagCacheTTL, "", "response cache TTL, seconds or a duration like 5m (0 disables)")
	pf.Bool(flagSkipVersionCheck, false, "skip the API version compatibility check")

	cmd.AddCommand(
		newBrowseCmd(), newProductsCmd(), newReviewsCmd(),
		newAuthCmd(), newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Open the interactive product browser
  catalogview

  # Print the whole product hierarchy
  catalogview products tree

  # Print two levels as JSON
  catalogview products tree --depth 1 --output json

  # Show one product and its reviews
  catalogview products show P-100
  catalogview reviews P-100

  # Point at another API for one run
  catalogview --api-url https://catalog.example.com browse

  # Store an API token
  catalogview auth login --token "$TOKEN"`

// applyConfigLayers loads the global config and applies the --config overlay,
// environment overrides and flags, in that order.
func applyConfigLayers(cmd *cobra.Command) error {
	config.InitGlobalConfig()
	if err := config.GlobalConfigError(); err != nil {
		cmd.PrintErrf("Warning: %v (using defaults)\n", err)
	}
	cfg := config.GetGlobalConfig()

	flags := cmd.Flags()
	if overlay, _ := flags.GetString(flagConfig); overlay != "" {
		if err := config.ShallowMergeYAML(cfg, overlay); err != nil {
			return fmt.Errorf("applying --config overlay: %w", err)
		}
		cfg.ApplyEnv()
	}

	if flags.Changed(flagAPIURL) {
		cfg.API.BaseURL, _ = flags.GetString(flagAPIURL)
	}
	if noCache, _ := flags.GetBool(flagNoCache); noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed(flagCacheTTL) {
		raw, _ := flags.GetString(flagCacheTTL)
		ttl, err := cache.ParseTTL(raw)
		if err != nil {
			return fmt.Errorf("invalid --%s: %w", flagCacheTTL, err)
		}
		cfg.Cache.TTLSeconds = ttl
	}
	if skip, _ := flags.GetBool(flagSkipVersionCheck); skip {
		cfg.API.SkipVersionCheck = true
	}
	return nil
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigShowCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
