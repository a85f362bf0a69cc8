package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/internal/format"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

const tabPadding = 2

// unlimitedDepth expands every level.
const unlimitedDepth = -1

// productLister is the part of the API client the tree dump needs.
type productLister interface {
	FetchRootProducts(ctx context.Context) ([]api.Product, error)
	FetchChildProducts(ctx context.Context, parentID string) ([]api.Product, error)
}

// newProductsCmd creates the products command group.
func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Product catalog commands"}
	cmd.AddCommand(newProductsTreeCmd(), newProductsShowCmd())
	return cmd
}

type treeOptions struct {
	depth  int
	output string
}

func newProductsTreeCmd() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the product hierarchy",
		Long: `Prints products starting from the roots, expanding children level by level.
Children of one level are fetched concurrently. A product whose children fail to
load is printed with the error and the rest of the tree is kept.`,
		Example: `  # Whole hierarchy
  catalogview products tree

  # Roots and their direct children
  catalogview products tree --depth 1

  # Machine-readable
  catalogview products tree --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output = config.GetOutputFormat(opts.output)
			return runProductsTree(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.depth, "depth", unlimitedDepth, "levels below the roots to expand (-1 for all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output format: table or json")

	return cmd
}

// productNode is one expanded product in a dump.
type productNode struct {
	api.Product

	Children []*productNode `json:"children,omitempty"`
	Error    string         `json:"error,omitempty"`

	depth     int
	ancestors map[string]bool
}

func runProductsTree(cmd *cobra.Command, opts treeOptions) error {
	if err := validateOutput(opts.output); err != nil {
		return err
	}
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	roots, err := buildProductTree(cmd.Context(), client, opts.depth)
	if err != nil {
		return err
	}

	if opts.output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), roots)
	}
	if len(roots) == 0 {
		cmd.Println("No products available yet.")
		return nil
	}
	return renderProductTree(cmd.OutOrStdout(), roots, config.GetGlobalConfig().Tree.IndentWidth)
}

// buildProductTree fetches the roots and expands maxDepth levels below them
// (all levels when maxDepth is negative). Each level's children are fetched
// concurrently, bounded by runtime.NumCPU(). A failed child fetch is recorded
// on its node; only a failed root fetch or cancellation aborts the dump.
// Products that reappear below themselves are not expanded again.
func buildProductTree(ctx context.Context, client productLister, maxDepth int) ([]*productNode, error) {
	products, err := client.FetchRootProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	roots := make([]*productNode, 0, len(products))
	for _, p := range products {
		roots = append(roots, &productNode{Product: p, ancestors: map[string]bool{p.ProductID: true}})
	}

	level := roots
	for depth := 0; len(level) > 0 && (maxDepth < 0 || depth < maxDepth); depth++ {
		if err := expandLevel(ctx, client, level); err != nil {
			return nil, err
		}
		var next []*productNode
		for _, n := range level {
			next = append(next, n.Children...)
		}
		level = next
	}
	return roots, nil
}

func expandLevel(ctx context.Context, client productLister, level []*productNode) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, n := range level {
		g.Go(func() error {
			children, err := client.FetchChildProducts(gctx, n.ProductID)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				n.Error = err.Error()
				logger.Warn().Err(err).Str("product_id", n.ProductID).Msg("child fetch failed")
				return nil
			}
			for _, c := range children {
				if n.ancestors[c.ProductID] {
					logger.Warn().Str("product_id", c.ProductID).Str("parent_id", n.ProductID).
						Msg("product listed below itself, not expanding")
					continue
				}
				ancestors := make(map[string]bool, len(n.ancestors)+1)
				for id := range n.ancestors {
					ancestors[id] = true
				}
				ancestors[c.ProductID] = true
				n.Children = append(n.Children, &productNode{Product: c, depth: n.depth + 1, ancestors: ancestors})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("expanding product tree: %w", err)
	}
	return nil
}

// renderProductTree writes the tree as an aligned table, indenting ids by depth.
func renderProductTree(w io.Writer, roots []*productNode, indentWidth int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT ID\tNAME\tAVAILABLE FROM")
	fmt.Fprintln(tw, "----------\t----\t--------------")

	var walk func(nodes []*productNode)
	walk = func(nodes []*productNode) {
		for _, n := range nodes {
			indent := strings.Repeat(" ", n.depth*indentWidth)
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n", indent, n.ProductID, n.Name, format.Date(n.AvailableFrom))
			if n.Error != "" {
				// Marker and message stay in the id and name cells so later rows keep the header's columns.
				childIndent := strings.Repeat(" ", (n.depth+1)*indentWidth)
				fmt.Fprintf(tw, "%s!\tFailed to load child products: %s\t\n", childIndent, n.Error)
			}
			walk(n.Children)
		}
	}
	walk(roots)

	return tw.Flush()
}

func newProductsShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product's detail",
		Example: `  catalogview products show P-100
  catalogview products show P-100 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProductsShow(cmd, args[0], config.GetOutputFormat(output))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")

	return cmd
}

// errProductNotFound is returned when the API has no product for an id.
var errProductNotFound = errors.New("product not found")

func runProductsShow(cmd *cobra.Command, productID, output string) error {
	if err := validateOutput(output); err != nil {
		return err
	}
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	detail, err := client.FetchProductDetail(cmd.Context(), productID)
	if err != nil {
		return fmt.Errorf("unable to load product detail: %w", err)
	}
	if detail == nil {
		return fmt.Errorf("%w: %s", errProductNotFound, productID)
	}

	if output == outputJSON {
		return writeJSON(cmd.OutOrStdout(), detail)
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Product ID:\t%s\n", detail.ProductID)
	fmt.Fprintf(tw, "Name:\t%s\n", detail.Name)
	fmt.Fprintf(tw, "Price:\t%s\n", format.Currency(detail.Price, detail.Currency))
	fmt.Fprintf(tw, "Last updated:\t%s\n", format.Date(detail.LastUpdated))
	if len(detail.Categories) > 0 {
		fmt.Fprintf(tw, "Categories:\t%s\n", strings.Join(detail.Categories, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if overview := renderMarkdownForCLI(detail.Overview); overview != "" {
		fmt.Fprintf(out, "\n%s\n", overview)
	}
	return nil
}

func validateOutput(output string) error {
	switch output {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
