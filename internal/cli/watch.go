package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/notify"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Limit int // stop after this many notifications; 0 means until interrupted
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print push notifications for the logged-in user",
		Long: `Connect to the push channel for the logged-in user and print order
updates, price drops, stock alerts and cart reminders as they arrive.

The connection is retried with a fixed delay (reconnect_delay) whenever it
drops. Stop with Ctrl-C or --limit.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *App) error {
				return watch(ctx, opts, a)
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "exit after this many notifications")

	return cmd
}

func watch(ctx context.Context, opts *WatchOptions, a *App) error {
	snap, err := requireSession(a, "receive notifications")
	if err != nil {
		return err
	}

	chOpts := []notify.Option{
		notify.WithReconnectDelay(a.Config.ReconnectDelay),
		notify.WithLogger(a.Logger),
	}
	if opts.Now != nil {
		chOpts = append(chOpts, notify.WithNow(opts.Now))
	}
	ch, err := notify.NewChannel(a.Config.WSURL, strconv.FormatInt(snap.User.ID, 10), chOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid ws_url", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ch.Run(ctx)
		ch.Inbox().Close()
	}()
	a.Out.VerboseLog("watching %s", ch.URL())

	var received int
	for opts.Limit == 0 || received < opts.Limit {
		n, err := ch.Inbox().Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, notify.ErrClosed) {
				break
			}
			return WrapExitError(ExitFailure, "push channel stopped", err)
		}
		received++
		if err := a.Out.Success(NotificationLine{Notification: n}); err != nil {
			return err
		}
	}

	stop()
	<-done
	a.Logger.Debug("watch finished", "received", received, "attempts", ch.Attempts(), "dropped", ch.Dropped())
	return nil
}
