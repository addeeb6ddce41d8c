package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/catalog"
	"github.com/roach88/shopfront/internal/forms"
	"github.com/roach88/shopfront/internal/state"
)

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
	Category   string   // server-side category filter
	Query      string   // search text
	Min        float64  // price range lower bound
	Max        float64  // price range upper bound
	Categories []string // client-side category filter
	Sort       string   // price_low | price_high | newest
}

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Long: `Fetch the catalog and print it after search, filters and sorting.

--category asks the backend for one category. --category-filter narrows the
fetched catalog to any of the named categories. --min and --max must be given
together.

Examples:
  shopfront products
  shopfront products --query silk --sort price_low
  shopfront products --min 20 --max 100 --category-filter Dresses,Accessories
  shopfront products --category Outerwear --format json`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *App) error {
				return listProducts(ctx, cmd, opts, a)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "fetch only this category from the backend")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search name and description")
	cmd.Flags().Float64Var(&opts.Min, "min", 0, "minimum price")
	cmd.Flags().Float64Var(&opts.Max, "max", 0, "maximum price")
	cmd.Flags().StringSliceVar(&opts.Categories, "category-filter", nil, "show only these categories (comma separated)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "sort order (price_low|price_high|newest)")

	return cmd
}

func listProducts(ctx context.Context, cmd *cobra.Command, opts *ProductsOptions, a *App) error {
	flags := cmd.Flags()

	var filter state.SetFilterOptions
	if flags.Changed("min") != flags.Changed("max") {
		return NewExitError(ExitCommandError, "--min and --max must be given together")
	}
	if flags.Changed("min") {
		r := catalog.PriceRange{Min: opts.Min, Max: opts.Max}
		if err := forms.PriceRange(r); err != nil {
			return failure(err)
		}
		filter.PriceRange = &r
	}
	if flags.Changed("sort") {
		key, err := catalog.ParseSortKey(opts.Sort)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --sort", err)
		}
		filter.SortBy = &key
	}

	products, err := a.Client.Products(ctx, opts.Category)
	if err != nil {
		return failure(err)
	}
	a.Out.VerboseLog("fetched %d products", len(products))

	if flags.Changed("category-filter") {
		if err := forms.Categories(opts.Categories, products); err != nil {
			return failure(err)
		}
		filter.Categories = append([]string{}, opts.Categories...)
	}

	view := state.ViewHome
	if opts.Category != "" {
		view = state.ViewCategory
	}
	st := a.Store
	st.Dispatch(state.SetView{View: view})
	st.Dispatch(state.SetProducts{Products: products})
	if flags.Changed("query") {
		st.Dispatch(state.SetSearchQuery{Query: opts.Query})
	}
	snap := st.Dispatch(filter)

	return a.Out.Success(ProductList{
		View:     snap.View,
		Query:    snap.Query,
		Filters:  snap.Filters,
		Total:    len(snap.Products),
		Products: snap.Filtered,
	})
}

// NewProductCommand creates the product command.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product and select it",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				p, err := a.Client.Product(ctx, id)
				if err != nil {
					return failure(err)
				}
				snap := a.Store.Dispatch(state.SetView{View: state.ViewProduct, ProductID: id})
				detail := ProductDetail{Product: p}
				if line, ok := snap.CartLine(id); ok {
					detail.InCart = line.Quantity
				}
				return a.Out.Success(detail)
			})
		},
	}
	return cmd
}
