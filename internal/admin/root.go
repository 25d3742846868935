// Package admin implements wanttogo-admin, a command-line tool that manages
// accounts directly in the account store.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/config"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wanttogo/internal/server/services"
	"github.com/spf13/cobra"
)

// Opener connects to the account store described by cfg.
type Opener func(ctx context.Context, cfg *config.Config) (repomanager.RepositoryManager, error)

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	Backend    string
	MongoURI   string
	DSN        string
	BoltPath   string
	LogLevel   string
	Timeout    time.Duration

	open Opener
}

// NewRootCommand creates the root command of wanttogo-admin. A nil open uses
// repomanager.Open.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = repomanager.Open
	}

	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "wanttogo-admin",
		Short: "Manage want-to-go accounts",
		Long: `Manage want-to-go accounts directly in the account store.

The store is selected the same way as for the server: defaults, then the
config file given with --config, then the flags below.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "server config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend (mongo|postgres|bolt)")
	cmd.PersistentFlags().StringVar(&opts.MongoURI, "mongo-uri", "", "MongoDB URI")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "PostgreSQL DSN")
	cmd.PersistentFlags().StringVar(&opts.BoltPath, "bolt-path", "", "bolt account store file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 0, "store round-trip timeout")

	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))

	return cmd
}

// config builds the store configuration from defaults, file and flags.
func (o *RootOptions) config() (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	if o.ConfigPath != "" {
		if err := config.ReadFile(o.ConfigPath, cfg); err != nil {
			return nil, err
		}
	}

	overrides := []struct {
		dst *string
		val string
	}{
		{&cfg.StoreBackend, o.Backend},
		{&cfg.MongoURI, o.MongoURI},
		{&cfg.DatabaseDSN, o.DSN},
		{&cfg.BoltPath, o.BoltPath},
	}
	for _, ov := range overrides {
		if ov.val != "" {
			*ov.dst = ov.val
		}
	}

	if o.Timeout > 0 {
		cfg.StoreTimeout = o.Timeout
	}

	return cfg, cfg.Validate()
}

// withAccounts opens the store, runs fn and closes the store.
func (o *RootOptions) withAccounts(cmd *cobra.Command, fn func(ctx context.Context, acc *services.Accounts) error) (err error) {
	cfg, err := o.config()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repos, err := o.open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening account store: %w", err)
	}
	defer func() { err = errors.WithDeferred(err, repos.Close(ctx)) }()

	logger := logging.New(cmd.ErrOrStderr(), o.LogLevel)

	return fn(ctx, services.NewAccounts(repos.Accounts(), cfg.StoreTimeout, logger))
}
