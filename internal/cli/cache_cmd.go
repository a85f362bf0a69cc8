package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/cache"
	"github.com/rshade/catalogview/internal/config"
)

const bytesPerKB = 1024

// newCacheCmd creates the cache command group for the on-disk response cache.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Response cache commands"}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location, size and TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := openCacheForMaintenance(cfg)
			if err != nil {
				return err
			}
			stats, err := store.Stats()
			if err != nil {
				return fmt.Errorf("reading cache: %w", err)
			}

			enabled := "yes"
			if !cfg.Cache.Enabled || cfg.Cache.TTLSeconds <= 0 {
				enabled = "no"
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintf(tw, "Directory:\t%s\n", stats.Directory)
			fmt.Fprintf(tw, "Enabled:\t%s\n", enabled)
			fmt.Fprintf(tw, "Entries:\t%d\n", stats.Entries)
			fmt.Fprintf(tw, "Size:\t%.1f KB\n", float64(stats.SizeBytes)/bytesPerKB)
			fmt.Fprintf(tw, "TTL:\t%s\n", cache.FormatDuration(time.Duration(cfg.Cache.TTLSeconds)*time.Second))
			fmt.Fprintf(tw, "Max size:\t%d MB\n", stats.MaxSizeMB)
			return tw.Flush()
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var (
		yes         bool
		expiredOnly bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached API responses",
		Example: `  catalogview cache clear --yes
  catalogview cache clear --expired`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openCacheForMaintenance(config.GetGlobalConfig())
			if err != nil {
				return err
			}

			if expiredOnly {
				if err = store.CleanupExpired(); err != nil {
					return fmt.Errorf("removing expired entries: %w", err)
				}
				cmd.Println("Expired cache entries removed")
				return nil
			}

			if !yes {
				if !stdinIsTerminal(cmd.InOrStdin()) {
					return errors.New("refusing to clear the cache without --yes when not interactive")
				}
				result := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), "Delete all cached responses?")
				if !result.Accepted {
					cmd.Println("Aborted")
					return nil
				}
			}

			if err = store.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			cmd.Printf("Cache cleared (%s)\n", store.Directory())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")

	return cmd
}
