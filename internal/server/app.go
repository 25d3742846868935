// Package server wires the want-to-go application together: it opens the
// account store and the session store, builds the services and runs the HTTP
// server until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/auth"
	"github.com/dmitrijs2005/wanttogo/internal/server/catalog"
	"github.com/dmitrijs2005/wanttogo/internal/server/config"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/wanttogo/internal/server/services"
	"github.com/dmitrijs2005/wanttogo/internal/server/sessions"
	"github.com/dmitrijs2005/wanttogo/internal/server/web"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	sessions sessions.Store
	web      *web.Server
}

// NewApp opens the stores selected by c and builds the HTTP server.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (app *App, err error) {
	repos, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("opening account store: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.WithDeferred(err, repos.Close(ctx))
		}
	}()

	clock := timeutil.SystemClock{}

	store, err := newSessionStore(ctx, c, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	acc := services.NewAccounts(repos.Accounts(), c.StoreTimeout, logger)
	mgr := sessions.NewManager(&sessions.Config{
		Store:   store,
		Users:   acc,
		Matcher: auth.PlainTextMatcher{},
		Tokens:  auth.NewTokenCodec([]byte(c.SessionSecret), clock),
		Clock:   clock,
		Logger:  logger.With("module", "sessions"),
		TTL:     c.SessionTTL,
	})

	srv, err := web.New(&web.Config{
		Accounts:     acc,
		Sessions:     mgr,
		Itinerary:    services.NewItinerary(acc, mgr, logger),
		Catalog:      catalog.Default(),
		Logger:       logger,
		CookieSecure: c.CookieSecure,
	})
	if err != nil {
		return nil, errors.WithDeferred(err, store.Close())
	}

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		sessions: store,
		web:      srv,
	}, nil
}

func newSessionStore(
	ctx context.Context,
	c *config.Config,
	clock timeutil.Clock,
	logger logging.Logger,
) (sessions.Store, error) {
	if c.SessionStore == config.SessionStoreBolt {
		return sessions.NewBoltStore(ctx, c.SessionDBPath, clock, logger.With("module", "session_store"))
	}

	return sessions.NewMemoryStore(c.SessionCapacity, clock), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is canceled or a termination signal arrives, then
// releases the stores.
func (app *App) Run(ctx context.Context) (err error) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	defer func() {
		closeCtx := context.WithoutCancel(ctx)
		err = errors.WithDeferred(err, app.sessions.Close())
		err = errors.WithDeferred(err, app.repos.Close(closeCtx))
	}()

	app.logger.Info(ctx, "starting app", "backend", app.config.StoreBackend, "session_store", app.config.SessionStore)

	l, err := web.Listen(ctx, app.config.ListenAddr, app.config.PortFallbackAttempts, app.logger)
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}

	return app.web.Serve(ctx, l)
}
