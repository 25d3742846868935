package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// Serve serves HTTP on l until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutting down http server", logging.KeyError, err)
		}
	}()

	s.logger.Info(ctx, "starting http server", "address", l.Addr().String())

	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		<-done

		return nil
	}

	return err
}
