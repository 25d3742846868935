package sessions

import (
	"context"
	"sync"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/bluele/gcache"
	"github.com/dmitrijs2005/wanttogo/internal/common"
)

// MemoryStore is a bounded in-process session store. The least recently used
// sessions are evicted once capacity is reached.
type MemoryStore struct {
	// mu serializes Replace with Delete.
	mu    *sync.Mutex
	cache gcache.Cache
	clock timeutil.Clock
}

// NewMemoryStore returns a store holding at most capacity sessions. clock
// must not be nil.
func NewMemoryStore(capacity int, clock timeutil.Clock) *MemoryStore {
	return &MemoryStore{
		mu:    &sync.Mutex{},
		cache: gcache.New(capacity).LRU().Build(),
		clock: clock,
	}
}

// type check
var _ Store = (*MemoryStore)(nil)

// Load implements the [Store] interface for *MemoryStore.
func (ms *MemoryStore) Load(_ context.Context, id string) (s *Session, err error) {
	v, err := ms.cache.Get(id)
	if err != nil {
		if errors.Is(err, gcache.KeyNotFoundError) {
			return nil, common.ErrNotFound
		}

		return nil, err
	}

	s = v.(*Session)
	if !ms.clock.Now().Before(s.Expires) {
		ms.cache.Remove(id)

		return nil, common.ErrNotFound
	}

	return s.Clone(), nil
}

// Save implements the [Store] interface for *MemoryStore.
func (ms *MemoryStore) Save(_ context.Context, s *Session) (err error) {
	ttl := s.Expires.Sub(ms.clock.Now())
	if ttl <= 0 {
		ms.cache.Remove(s.ID)

		return nil
	}

	return ms.cache.SetWithExpire(s.ID, s.Clone(), ttl)
}

// Replace implements the [Store] interface for *MemoryStore.
func (ms *MemoryStore) Replace(ctx context.Context, s *Session) (err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, err = ms.Load(ctx, s.ID); err != nil {
		return err
	}

	return ms.Save(ctx, s)
}

// Delete implements the [Store] interface for *MemoryStore.
func (ms *MemoryStore) Delete(_ context.Context, id string) (err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.cache.Remove(id)

	return nil
}

// Close implements the [Store] interface for *MemoryStore.
func (ms *MemoryStore) Close() (err error) {
	ms.cache.Purge()

	return nil
}
