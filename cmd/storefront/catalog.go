package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/catalog"
	"github.com/akshad21/Shop1t-Ecommerce-Application/internal/listing"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCatalog(cmd, func(ctx context.Context, cat catalog.Catalog) error {
			categories, err := cat.Categories(ctx)
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		})
	},
}

var searchOpts struct {
	page     int
	sort     string
	minPrice float64
	maxPrice float64
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and print one page of results",
	Example: `  storefront search phone
  storefront search "red lipstick" --sort low-to-high --max 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sort := listing.SortOrder(searchOpts.sort)
		if !sort.Valid() {
			return fmt.Errorf("invalid --sort %q: want low-to-high or high-to-low", searchOpts.sort)
		}
		minPrice, maxPrice := listing.ClampRange(searchOpts.minPrice, searchOpts.maxPrice)

		return withCatalog(cmd, func(ctx context.Context, cat catalog.Catalog) error {
			products, err := cat.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			page := listing.Apply(products, listing.Query{
				MinPrice: minPrice,
				MaxPrice: maxPrice,
				Sort:     sort,
				Page:     searchOpts.page,
			})
			return printPage(cmd.OutOrStdout(), page)
		})
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchOpts.page, "page", 1, "result page")
	searchCmd.Flags().StringVar(&searchOpts.sort, "sort", "", "price sort: low-to-high or high-to-low")
	searchCmd.Flags().Float64Var(&searchOpts.minPrice, "min", 0, "minimum price")
	searchCmd.Flags().Float64Var(&searchOpts.maxPrice, "max", 0, "maximum price, 0 for no limit")
}

func withCatalog(cmd *cobra.Command, fn func(context.Context, catalog.Catalog) error) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	cat, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	return fn(ctx, cat)
}

func printPage(w io.Writer, page listing.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tPRICE")
	for _, p := range page.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", p.ID, p.Title, p.Category, p.Price)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d results)\n", page.CurrentPage, max(page.TotalPages, 1), page.TotalItems)
	return err
}
