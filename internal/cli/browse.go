package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/internal/logging"
	"github.com/rshade/catalogview/internal/tui"
)

// newBrowseCmd creates the browse command that opens the interactive browser.
func newBrowseCmd() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive product browser",
		Long: `Opens a full-screen browser over the product hierarchy.

Rows expand lazily: a product's children are fetched the first time it is
expanded. Enter opens the product detail page, r shows its reviews, esc goes
back and ? lists every key binding. Logs are written to the log file so the
screen stays clean.`,
		Example: `  # Browse the catalog
  catalogview browse

  # Browse with a fixed Markdown style
  catalogview browse --style dark`,
		Annotations: map[string]string{annotationInteractive: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if style != "" {
				cfg.Output.MarkdownStyle = style
			}
			return runBrowse(cmd)
		},
	}

	cmd.Flags().StringVar(&style, "style", "", "glamour style for Markdown (auto, dark, light, notty or a JSON path)")

	return cmd
}

// runBrowse runs the Bubble Tea program until the user quits.
func runBrowse(cmd *cobra.Command) error {
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	cfg := config.GetGlobalConfig()
	ctx := cmd.Context()
	app := tui.NewApp(ctx, client, tui.AppOptions{
		IndentWidth:   cfg.Tree.IndentWidth,
		StaleAfter:    time.Duration(cfg.Cache.StaleAfterSeconds) * time.Second,
		MarkdownStyle: cfg.Output.MarkdownStyle,
		Logger:        logging.ComponentLogger(logger, "tui"),
	})

	p := tea.NewProgram(app,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, runErr := p.Run(); runErr != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", runErr)
	}
	logger.Debug().Ctx(ctx).Msg("browser closed")
	return nil
}
