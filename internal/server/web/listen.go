package web

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
)

// Listen binds addr. When the port is taken, the next port is tried, up to
// fallbackAttempts times.
func Listen(ctx context.Context, addr string, fallbackAttempts int, logger logging.Logger) (net.Listener, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("parsing listen address: %w", err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("parsing listen port: %w", err)
	}

	var lc net.ListenConfig
	for i := 0; ; i++ {
		candidate := net.JoinHostPort(host, strconv.Itoa(port+i))

		l, lErr := lc.Listen(ctx, "tcp", candidate)
		if lErr == nil {
			return l, nil
		}

		if !errors.Is(lErr, syscall.EADDRINUSE) || i >= fallbackAttempts || port == 0 {
			return nil, lErr
		}

		logger.Warn(ctx, "port is already in use, trying another port", "addr", candidate)
	}
}
