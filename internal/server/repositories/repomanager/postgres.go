package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/server/migrations"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends the PostgreSQL account repository and
// exposes a schema migration hook.
type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts *accounts.PostgresRepository
}

// NewPostgresRepositoryManager wraps an already opened database.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
	}
}

// OpenPostgres connects with pgx, checks the connection and migrates the
// schema.
func OpenPostgres(ctx context.Context, dsn string) (m *PostgresRepositoryManager, err error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.WithDeferred(err, db.Close())
		}
	}()

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	m = NewPostgresRepositoryManager(db)
	if err = m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return m, nil
}

// Accounts implements the [RepositoryManager] interface.
func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return gooseUpContext(ctx, m.db, ".")
}

// Close implements the [RepositoryManager] interface.
func (m *PostgresRepositoryManager) Close(_ context.Context) error {
	return m.db.Close()
}
