package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/forms"
	"github.com/roach88/shopfront/internal/state"
)

// NewCartCommand creates the cart command and its subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Long: `Show or change the cart. The cart is kept in the local state file.

Examples:
  shopfront cart
  shopfront cart add 3
  shopfront cart set 3 2
  shopfront cart remove 3
  shopfront cart clear`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCart(cmd, rootOpts)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the cart with its total",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showCart(cmd, rootOpts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
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
				snap := a.Store.Dispatch(state.AddToCart{Product: p})
				return a.Out.Success(newCartView(snap))
			})
		},
	})

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a cart line (0 removes it)",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[1]))
			}
			if err := forms.Quantity(qty); err != nil {
				return failure(err)
			}
			return rootOpts.run(cmd, func(_ context.Context, a *App) error {
				if _, ok := a.Store.Snapshot().CartLine(id); !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("product %d is not in the cart", id))
				}
				snap := a.Store.Dispatch(state.UpdateCartQuantity{ProductID: id, Quantity: qty})
				return a.Out.Success(newCartView(snap))
			})
		},
	}
	// Flags end at the first positional so a negative quantity reaches
	// validation instead of being read as a shorthand flag.
	set.Flags().SetInterspersed(false)
	cmd.AddCommand(set)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return rootOpts.run(cmd, func(_ context.Context, a *App) error {
				snap := a.Store.Dispatch(state.RemoveFromCart{ProductID: id})
				return a.Out.Success(newCartView(snap))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(_ context.Context, a *App) error {
				snap := a.Store.Dispatch(state.ClearCart{})
				return a.Out.Success(newCartView(snap))
			})
		},
	})

	return cmd
}

func showCart(cmd *cobra.Command, rootOpts *RootOptions) error {
	return rootOpts.run(cmd, func(_ context.Context, a *App) error {
		return a.Out.Success(newCartView(a.Store.Snapshot()))
	})
}
