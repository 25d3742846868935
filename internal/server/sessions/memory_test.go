package sessions

import (
	"fmt"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	clock, fc := newTestClock()
	ms := NewMemoryStore(10, fc)
	testutil.CleanupAndRequireSuccess(t, ms.Close)

	s := &Session{
		ID:      "s1",
		Expires: fc.Now().Add(time.Hour),
		User:    &models.User{Username: "alice", WantToGoList: []string{"Paris"}},
	}
	require.NoError(t, ms.Save(ctx, s))

	got, err := ms.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	t.Run("copies", func(t *testing.T) {
		got.User.WantToGoList[0] = "Rome"
		s.User.WantToGoList = append(s.User.WantToGoList, "Bali")

		again, loadErr := ms.Load(ctx, "s1")
		require.NoError(t, loadErr)
		assert.Equal(t, []string{"Paris"}, again.User.WantToGoList)
	})

	t.Run("missing", func(t *testing.T) {
		_, loadErr := ms.Load(ctx, "nope")
		assert.ErrorIs(t, loadErr, common.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		clock.advance(2 * time.Hour)

		_, loadErr := ms.Load(ctx, "s1")
		assert.ErrorIs(t, loadErr, common.ErrNotFound)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	_, fc := newTestClock()
	ms := NewMemoryStore(10, fc)

	require.NoError(t, ms.Save(ctx, &Session{ID: "s1", Expires: fc.Now().Add(time.Hour)}))
	require.NoError(t, ms.Delete(ctx, "s1"))
	require.NoError(t, ms.Delete(ctx, "s1"))

	_, err := ms.Load(ctx, "s1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStore_Eviction(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	_, fc := newTestClock()

	const capacity = 3
	ms := NewMemoryStore(capacity, fc)

	for i := range capacity + 1 {
		require.NoError(t, ms.Save(ctx, &Session{
			ID:      fmt.Sprintf("s%d", i),
			Expires: fc.Now().Add(time.Hour),
		}))
	}

	_, err := ms.Load(ctx, "s0")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = ms.Load(ctx, fmt.Sprintf("s%d", capacity))
	assert.NoError(t, err)
}

func TestMemoryStore_SaveExpired(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	_, fc := newTestClock()
	ms := NewMemoryStore(10, fc)

	require.NoError(t, ms.Save(ctx, &Session{ID: "old", Expires: fc.Now().Add(-time.Second)}))

	_, err := ms.Load(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStore_Replace(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	clock, fc := newTestClock()
	ms := NewMemoryStore(10, fc)

	s := &Session{ID: "s1", Expires: fc.Now().Add(time.Hour)}
	assert.ErrorIs(t, ms.Replace(ctx, s), common.ErrNotFound)

	_, err := ms.Load(ctx, "s1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, ms.Save(ctx, s))

	s.User = &models.User{Username: "alice"}
	require.NoError(t, ms.Replace(ctx, s))

	got, err := ms.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	require.NoError(t, ms.Delete(ctx, "s1"))
	assert.ErrorIs(t, ms.Replace(ctx, s), common.ErrNotFound)

	require.NoError(t, ms.Save(ctx, s))
	clock.advance(2 * time.Hour)
	assert.ErrorIs(t, ms.Replace(ctx, s), common.ErrNotFound)
}
