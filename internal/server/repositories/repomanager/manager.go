// Package repomanager opens the configured account store backend and hands
// out its repository.
package repomanager

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/server/config"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
)

// RepositoryManager owns the connection of one backend.
type RepositoryManager interface {
	Accounts() accounts.Repository
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.StoreBackend and prepares its
// schema.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.DatabaseDSN)
	case config.BackendBolt:
		return OpenBolt(cfg.BoltPath)
	default:
		return nil, fmt.Errorf("store backend %q: %w", cfg.StoreBackend, errors.ErrBadEnumValue)
	}
}
