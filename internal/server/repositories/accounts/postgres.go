package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/dbx"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgForeignKeyViolation is the SQLSTATE raised when want_to_go references a
// missing user.
const pgForeignKeyViolation = "23503"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// type check
var _ Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query :=
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, user.Username, user.Password)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if n == 0 {
		return common.ErrAlreadyExists
	}

	return nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return findByUsername(ctx, r.db, username)
}

func (r *PostgresRepository) AddToList(ctx context.Context, username, destination string) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO want_to_go (username, destination)
			 VALUES ($1, $2)
			 ON CONFLICT (username, destination) DO NOTHING
			 `

		res, err := tx.ExecContext(ctx, query, username, destination)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return common.ErrNotFound
			}

			return fmt.Errorf("db error: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		if n == 0 {
			return common.ErrAlreadyPresent
		}

		user, err = findByUsername(ctx, tx, username)

		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// findByUsername loads the account and its list, oldest entry first.
func findByUsername(ctx context.Context, db dbx.DBTX, username string) (*models.User, error) {
	query :=
		`SELECT u.username, u.password, w.destination
		 FROM users u
		 LEFT JOIN want_to_go w ON w.username = u.username
		 WHERE u.username = $1
		 ORDER BY w.id
		 `

	rows, err := db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var user *models.User
	for rows.Next() {
		var (
			name, password string
			destination    sql.NullString
		)

		if err = rows.Scan(&name, &password, &destination); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}

		if user == nil {
			user = &models.User{Username: name, Password: password, WantToGoList: []string{}}
		}

		if destination.Valid {
			user.WantToGoList = append(user.WantToGoList, destination.String)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if user == nil {
		return nil, common.ErrNotFound
	}

	return user, nil
}
