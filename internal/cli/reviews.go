package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/internal/format"
	"github.com/rshade/catalogview/internal/tui"
)

// cliMarkdownWidth is the wrap width for Markdown printed outside the browser.
const cliMarkdownWidth = 80

// markdownStyleNoTTY renders Markdown without ANSI escapes.
const markdownStyleNoTTY = "notty"

func newReviewsCmd() *cobra.Command {
	var (
		output string
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "reviews <product-id>",
		Short: "List a product's reviews",
		Example: `  # Reviewer, date and email per review
  catalogview reviews P-100

  # Include each review's text
  catalogview reviews P-100 --full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviews(cmd, args[0], config.GetOutputFormat(output), full)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")
	cmd.Flags().BoolVar(&full, "full", false, "print the review text under each review")

	return cmd
}

func runReviews(cmd *cobra.Command, productID, output string, full bool) error {
	if err := validateOutput(output); err != nil {
		return err
	}
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	reviews, err := client.FetchProductReviews(cmd.Context(), productID)
	if err != nil {
		return fmt.Errorf("unable to load reviews: %w", err)
	}

	if output == outputJSON {
		if reviews == nil {
			reviews = []api.Review{}
		}
		return writeJSON(cmd.OutOrStdout(), reviews)
	}
	if len(reviews) == 0 {
		cmd.Println("No reviews published yet.")
		return nil
	}

	out := cmd.OutOrStdout()
	if full {
		for i, r := range reviews {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s · %s · %s\n", r.ReviewInfo.Name, format.Date(r.ReviewInfo.Date), r.ReviewInfo.Email)
			if body := renderMarkdownForCLI(r.ReviewContent); body != "" {
				fmt.Fprintln(out, body)
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "REVIEW ID\tNAME\tDATE\tEMAIL")
	fmt.Fprintln(tw, "---------\t----\t----\t-----")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ReviewID, r.ReviewInfo.Name, format.Date(r.ReviewInfo.Date), r.ReviewInfo.Email)
	}
	return tw.Flush()
}

// renderMarkdownForCLI renders Markdown with the configured style on a
// terminal and without escapes when output is redirected.
func renderMarkdownForCLI(content string) string {
	style := config.GetGlobalConfig().Output.MarkdownStyle
	if !stdoutIsTerminal() {
		style = markdownStyleNoTTY
	}
	return tui.RenderMarkdown(content, cliMarkdownWidth, style)
}
