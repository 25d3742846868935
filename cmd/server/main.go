package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server"
	"github.com/dmitrijs2005/wanttogo/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "initializing app", logging.KeyError, err)
		os.Exit(1)
	}

	if err = app.Run(ctx); err != nil {
		logger.Error(ctx, "running app", logging.KeyError, err)
		os.Exit(1)
	}
}
