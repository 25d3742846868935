package accounts

import (
	"fmt"
	"sync"
	"testing"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/mongotest"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// newMongoClient connects to the test server.
func newMongoClient(t *testing.T) *mongo.Client {
	t.Helper()

	client, err := mongo.Connect(options.Client().ApplyURI(mongotest.URI(t)))
	require.NoError(t, err)
	testutil.CleanupAndRequireSuccess(t, func() error {
		return client.Disconnect(testutil.ContextWithTimeout(t, testTimeout))
	})

	return client
}

// newMongoRepo returns a repository over a throwaway collection.
func newMongoRepo(t *testing.T, client *mongo.Client) *MongoRepository {
	t.Helper()

	coll := client.Database("wanttogo_test").Collection("users_" + uuid.NewString())
	t.Cleanup(func() {
		_ = coll.Drop(testutil.ContextWithTimeout(t, testTimeout))
	})

	repo := NewMongoRepository(coll)
	require.NoError(t, repo.EnsureIndexes(testutil.ContextWithTimeout(t, testTimeout)))

	return repo
}

func TestMongoRepository(t *testing.T) {
	client := newMongoClient(t)

	t.Run("create_and_find", func(t *testing.T) {
		repo := newMongoRepo(t, client)
		ctx := testutil.ContextWithTimeout(t, testTimeout)

		require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Password: "pw"}))

		err := repo.Create(ctx, &models.User{Username: "alice", Password: "x"})
		assert.ErrorIs(t, err, common.ErrAlreadyExists)

		got, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, &models.User{Username: "alice", Password: "pw", WantToGoList: []string{}}, got)

		_, err = repo.FindByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("add_to_list", func(t *testing.T) {
		repo := newMongoRepo(t, client)
		ctx := testutil.ContextWithTimeout(t, testTimeout)

		require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Password: "pw"}))

		got, err := repo.AddToList(ctx, "alice", "Paris")
		require.NoError(t, err)
		assert.Equal(t, []string{"Paris"}, got.WantToGoList)

		got, err = repo.AddToList(ctx, "alice", "Rome")
		require.NoError(t, err)
		assert.Equal(t, []string{"Paris", "Rome"}, got.WantToGoList)

		_, err = repo.AddToList(ctx, "alice", "Paris")
		assert.ErrorIs(t, err, common.ErrAlreadyPresent)

		_, err = repo.AddToList(ctx, "ghost", "Paris")
		assert.ErrorIs(t, err, common.ErrNotFound)

		got, err = repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{"Paris", "Rome"}, got.WantToGoList)
	})

	t.Run("concurrent_adds", func(t *testing.T) {
		repo := newMongoRepo(t, client)
		ctx := testutil.ContextWithTimeout(t, testTimeout)

		require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Password: "pw"}))

		const workers = 8

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			added   = map[string]int{}
			present = map[string]int{}
		)

		for i := range workers {
			dest := "Bali"
			if i%2 == 1 {
				dest = "Santorini"
			}

			wg.Add(1)
			go func() {
				defer wg.Done()

				_, err := repo.AddToList(ctx, "alice", dest)

				mu.Lock()
				defer mu.Unlock()

				if err == nil {
					added[dest]++
				} else if assert.ErrorIs(t, err, common.ErrAlreadyPresent, fmt.Sprintf("adding %s", dest)) {
					present[dest]++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, map[string]int{"Bali": 1, "Santorini": 1}, added)
		assert.Equal(t, map[string]int{"Bali": workers/2 - 1, "Santorini": workers/2 - 1}, present)

		got, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Bali", "Santorini"}, got.WantToGoList)
	})
}
