package accounts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"go.etcd.io/bbolt"
)

// boltBucketUsers holds one JSON-encoded models.User per username key.
const boltBucketUsers = "users"

// BoltRepository keeps accounts in an embedded bbolt file. bbolt serializes
// writers, so each read-modify-write runs in a single update transaction.
type BoltRepository struct {
	db *bbolt.DB
}

// NewBoltRepository returns a repository over db, creating its bucket when
// missing.
func NewBoltRepository(db *bbolt.DB) (*BoltRepository, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketUsers))

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltRepository{db: db}, nil
}

// type check
var _ Repository = (*BoltRepository)(nil)

// Create implements the [Repository] interface for *BoltRepository.
func (r *BoltRepository) Create(ctx context.Context, user *models.User) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}

	return r.update(func(bkt *bbolt.Bucket) error {
		key := []byte(user.Username)
		if bkt.Get(key) != nil {
			return common.ErrAlreadyExists
		}

		return putUser(bkt, &models.User{
			Username:     user.Username,
			Password:     user.Password,
			WantToGoList: []string{},
		})
	})
}

// FindByUsername implements the [Repository] interface for *BoltRepository.
func (r *BoltRepository) FindByUsername(ctx context.Context, username string) (u *models.User, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	err = r.db.View(func(tx *bbolt.Tx) (err error) {
		u, err = getUser(tx.Bucket([]byte(boltBucketUsers)), username)

		return err
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// AddToList implements the [Repository] interface for *BoltRepository.
func (r *BoltRepository) AddToList(
	ctx context.Context,
	username string,
	destination string,
) (u *models.User, err error) {
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	err = r.update(func(bkt *bbolt.Bucket) (err error) {
		u, err = getUser(bkt, username)
		if err != nil {
			return err
		}

		if u.Has(destination) {
			return common.ErrAlreadyPresent
		}

		u.WantToGoList = append(u.WantToGoList, destination)

		return putUser(bkt, u)
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// update runs fn against the users bucket inside a writable transaction.
func (r *BoltRepository) update(fn func(bkt *bbolt.Bucket) error) (err error) {
	tx, err := r.db.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	needRollback := true
	defer func() {
		if needRollback {
			err = errors.WithDeferred(err, tx.Rollback())
		}
	}()

	if err = fn(tx.Bucket([]byte(boltBucketUsers))); err != nil {
		return err
	}

	needRollback = false
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func getUser(bkt *bbolt.Bucket, username string) (u *models.User, err error) {
	data := bkt.Get([]byte(username))
	if data == nil {
		return nil, common.ErrNotFound
	}

	u = &models.User{}
	if err = json.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("decoding user %q: %w", username, err)
	}

	if u.WantToGoList == nil {
		u.WantToGoList = []string{}
	}

	return u, nil
}

func putUser(bkt *bbolt.Bucket, u *models.User) (err error) {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	err = bkt.Put([]byte(u.Username), data)
	if err != nil {
		return fmt.Errorf("putting data: %w", err)
	}

	return nil
}
