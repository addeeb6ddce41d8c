package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/state"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view [name] [product-id]",
		Short: "Print or change the current view",
		Long: `Without arguments, print the current view, selected product, user and
cart size. With a name, make it the current view; a product id selects that
product, otherwise any selection is cleared.

Unknown view names are stored as given and shown as home.

Examples:
  shopfront view
  shopfront view cart
  shopfront view product 3`,
		Args: rangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var action state.Action
			if len(args) > 0 {
				set := state.SetView{View: state.View(args[0])}
				if len(args) == 2 {
					id, err := parseID("product", args[1])
					if err != nil {
						return err
					}
					set.ProductID = id
				}
				action = set
			}
			return rootOpts.run(cmd, func(_ context.Context, a *App) error {
				// A nil action leaves the store untouched.
				snap := a.Store.Dispatch(action)
				return a.Out.Success(newViewInfo(snap))
			})
		},
	}
}
