package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/state"
)

// requireSession returns the current snapshot if a user is logged in.
// Otherwise it moves to the login view.
func requireSession(a *App, action string) (state.Snapshot, error) {
	snap := a.Store.Snapshot()
	if !snap.Authenticated() {
		a.Store.Dispatch(state.SetView{View: state.ViewLogin})
		return snap, NewExitError(ExitFailure, fmt.Sprintf("Please log in to %s.", action))
	}
	return snap, nil
}

// sessionFailure drops the session when the backend rejected the token.
func sessionFailure(a *App, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.Logger.Info("backend rejected session token, logging out")
		a.Store.Dispatch(state.SetUser{})
		a.Store.Dispatch(state.SetView{View: state.ViewLogin})
	}
	return failure(err)
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place an order for everything in the cart. Requires a login.

On success the cart is emptied and the orders view becomes current.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				snap, err := requireSession(a, "place an order")
				if err != nil {
					return err
				}
				if len(snap.Cart) == 0 {
					return NewExitError(ExitFailure, "Your cart is empty.")
				}

				req := api.NewOrderRequest(*snap.User, snap.Cart)
				res, err := a.Client.PlaceOrder(ctx, snap.Token, req)
				if err != nil {
					return sessionFailure(a, err)
				}
				a.Logger.Info("order placed", "order_id", res.OrderID, "items", len(req.Items))

				a.Store.Dispatch(state.ClearCart{})
				a.Store.Dispatch(state.SetView{View: state.ViewOrders})
				return a.Out.Success(Receipt{
					OrderID:    res.OrderID,
					Message:    res.Message,
					TotalPrice: res.TotalPrice,
				})
			})
		},
	}
}

// NewOrdersCommand creates the orders command and its subcommands.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	list := func(cmd *cobra.Command, args []string) error {
		return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
			snap, err := requireSession(a, "view your orders")
			if err != nil {
				return err
			}
			orders, err := a.Client.Orders(ctx, snap.Token)
			if err != nil {
				return sessionFailure(a, err)
			}
			a.Store.Dispatch(state.SetView{View: state.ViewOrders})
			return a.Out.Success(OrderList{Orders: orders})
		})
	}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show or cancel orders",
		Args:  exactArgs(0),
		RunE:  list,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show order history",
		Args:  exactArgs(0),
		RunE:  list,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending order",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("order", args[0])
			if err != nil {
				return err
			}
			return rootOpts.run(cmd, func(ctx context.Context, a *App) error {
				snap, err := requireSession(a, "cancel an order")
				if err != nil {
					return err
				}
				msg, err := a.Client.CancelOrder(ctx, snap.Token, id)
				if err != nil {
					return sessionFailure(a, err)
				}
				return a.Out.Success(Notice{Message: msg})
			})
		},
	})

	return cmd
}
