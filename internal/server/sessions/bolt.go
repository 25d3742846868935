package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"go.etcd.io/bbolt"
)

// boltBucketSessions is the name of the bucket storing sessions.
const boltBucketSessions = "sessions"

// BoltStore persists sessions in a bbolt file so that they survive restarts.
type BoltStore struct {
	db     *bbolt.DB
	clock  timeutil.Clock
	logger logging.Logger
}

// NewBoltStore opens the session file at path and removes the sessions that
// expired while the process was down.
func NewBoltStore(ctx context.Context, path string, clock timeutil.Clock, logger logging.Logger) (bs *BoltStore, err error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening db %q: %w", path, err)
	}

	bs = &BoltStore{db: db, clock: clock, logger: logger}

	removed, err := bs.sweep()
	if err != nil {
		return nil, errors.WithDeferred(fmt.Errorf("loading sessions: %w", err), db.Close())
	}

	logger.Debug(ctx, "loaded sessions from db", "removed", removed)

	return bs, nil
}

// type check
var _ Store = (*BoltStore)(nil)

// sweep drops expired and undecodable sessions.
func (bs *BoltStore) sweep() (removed int, err error) {
	now := bs.clock.Now()

	err = bs.db.Update(func(tx *bbolt.Tx) (err error) {
		bkt, err := tx.CreateBucketIfNotExists([]byte(boltBucketSessions))
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}

		var invalid [][]byte
		err = bkt.ForEach(func(k, v []byte) (err error) {
			s := &Session{}
			if json.Unmarshal(v, s) != nil || !now.Before(s.Expires) {
				invalid = append(invalid, k)
			}

			return nil
		})
		if err != nil {
			return fmt.Errorf("iterating over sessions: %w", err)
		}

		var errs []error
		for _, k := range invalid {
			if err = bkt.Delete(k); err != nil {
				errs = append(errs, err)
			}
		}

		removed = len(invalid)

		return errors.Join(errs...)
	})

	return removed, err
}

// Load implements the [Store] interface for *BoltStore.
func (bs *BoltStore) Load(ctx context.Context, id string) (s *Session, err error) {
	var data []byte
	err = bs.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(boltBucketSessions)).Get([]byte(id)); v != nil {
			data = append([]byte(nil), v...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, common.ErrNotFound
	}

	s = &Session{}
	if err = json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	if !bs.clock.Now().Before(s.Expires) {
		if err = bs.Delete(ctx, id); err != nil {
			bs.logger.Error(ctx, "deleting expired session", logging.KeyError, err)
		}

		return nil, common.ErrNotFound
	}

	return s, nil
}

// Save implements the [Store] interface for *BoltStore.
func (bs *BoltStore) Save(_ context.Context, s *Session) (err error) {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	return bs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketSessions)).Put([]byte(s.ID), data)
	})
}

// Replace implements the [Store] interface for *BoltStore.
func (bs *BoltStore) Replace(_ context.Context, s *Session) (err error) {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	now := bs.clock.Now()

	return bs.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(boltBucketSessions))

		v := bkt.Get([]byte(s.ID))
		if v == nil {
			return common.ErrNotFound
		}

		prev := &Session{}
		if json.Unmarshal(v, prev) != nil || !now.Before(prev.Expires) {
			return common.ErrNotFound
		}

		return bkt.Put([]byte(s.ID), data)
	})
}

// Delete implements the [Store] interface for *BoltStore.
func (bs *BoltStore) Delete(_ context.Context, id string) (err error) {
	return bs.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketSessions)).Delete([]byte(id))
	})
}

// Close implements the [Store] interface for *BoltStore.
func (bs *BoltStore) Close() (err error) {
	err = bs.db.Close()
	if err != nil {
		return fmt.Errorf("closing db: %w", err)
	}

	return nil
}
