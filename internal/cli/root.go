// Package cli implements the shopfront command line. Each invocation opens
// the store from the SQLite state file, so the current view, cart and session
// carry over between commands the way they carry over page reloads.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/config"
	"github.com/roach88/shopfront/internal/persist"
	"github.com/roach88/shopfront/internal/state"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	ConfigDir string
	DataDir   string
	APIURL    string
	WSURL     string

	// Now overrides the wall clock used for session expiry (for testing).
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the shopfront CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopfront",
		Short: "shopfront - storefront client",
		Long: `Browse the catalog, manage a cart and place orders against a storefront backend.

The current view, selected product, cart and login session are kept in a
local state file and restored on every invocation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/shopfront)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory holding state.db (default: $XDG_DATA_HOME/shopfront)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "backend REST endpoint (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.WSURL, "ws-url", "", "push notification endpoint (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewForgotPasswordCommand(opts))
	cmd.AddCommand(NewResetPasswordCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

// Execute runs the root command with args and reports any error through the
// output formatter. It returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	out := opts.formatter(cmd)
	if !isExitError(err) {
		// Unknown commands and argument count errors come straight from cobra.
		err = WrapExitError(ExitCommandError, err.Error(), nil)
	}
	_ = out.Report(err)
	return GetExitCode(err)
}

func isExitError(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	format := o.Format
	if !slices.Contains(ValidFormats, format) {
		format = "text"
	}
	return &OutputFormatter{
		Format:    format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// App is everything a command needs: resolved configuration, the store
// loaded from the state file, and a backend client.
type App struct {
	Config config.Config
	Store  *state.Store
	Client *api.Client
	Out    *OutputFormatter
	Logger *slog.Logger

	db *persist.SQLite
}

// open resolves configuration and loads the store. The caller must Close
// the returned App.
func (o *RootOptions) open(cmd *cobra.Command) (*App, error) {
	out := o.formatter(cmd)
	logger := o.logger(cmd)

	cfg, err := config.Load(config.Overrides{
		ConfigDir: o.ConfigDir,
		DataDir:   o.DataDir,
		APIURL:    o.APIURL,
		WSURL:     o.WSURL,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	out.VerboseLog("config: %s, data: %s", cfg.ConfigDir, cfg.DataDir)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create data dir", err)
	}
	db, err := persist.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open state database", err)
	}

	client, err := api.New(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.RateLimit, 1),
		api.WithLogger(logger),
	)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "invalid api_url", err)
	}

	storeOpts := []state.Option{
		state.WithLogger(logger),
		state.WithMaxPrice(cfg.MaxPrice),
	}
	if o.Now != nil {
		storeOpts = append(storeOpts, state.WithNow(o.Now))
	}

	return &App{
		Config: cfg,
		Store:  state.New(db, storeOpts...),
		Client: client,
		Out:    out,
		Logger: logger,
		db:     db,
	}, nil
}

// Close releases the state database.
func (a *App) Close() error {
	return a.db.Close()
}

// run opens the App, calls fn and closes the App.
func (o *RootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, a *App) error) error {
	a, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

// exactArgs is cobra.ExactArgs reporting a command error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, err.Error(), nil)
		}
		return nil
	}
}

// rangeArgs is cobra.RangeArgs reporting a command error.
func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(min, max)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, err.Error(), nil)
		}
		return nil
	}
}

// parseID parses a positive product or order id argument.
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s id %q", what, s))
	}
	return id, nil
}
