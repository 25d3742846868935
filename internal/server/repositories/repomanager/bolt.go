package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
	"go.etcd.io/bbolt"
)

// boltOpenTimeout bounds the wait for the file lock held by another process.
const boltOpenTimeout = 1 * time.Second

// BoltRepositoryManager owns the embedded account file.
type BoltRepositoryManager struct {
	db       *bbolt.DB
	accounts *accounts.BoltRepository
}

// OpenBolt opens or creates the account file at path.
func OpenBolt(path string) (m *BoltRepositoryManager, err error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening db %q: %w", path, err)
	}

	repo, err := accounts.NewBoltRepository(db)
	if err != nil {
		return nil, errors.WithDeferred(err, db.Close())
	}

	return &BoltRepositoryManager{db: db, accounts: repo}, nil
}

// Accounts implements the [RepositoryManager] interface.
func (m *BoltRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

// Close implements the [RepositoryManager] interface.
func (m *BoltRepositoryManager) Close(_ context.Context) error {
	return m.db.Close()
}
