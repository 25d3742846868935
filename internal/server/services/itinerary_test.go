package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/testutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/auth"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/wanttogo/internal/server/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

type itineraryEnv struct {
	accounts  *Accounts
	manager   *sessions.Manager
	itinerary *Itinerary
}

func newItineraryEnv(t *testing.T) *itineraryEnv {
	t.Helper()

	db, err := bbolt.Open(filepath.Join(t.TempDir(), "accounts.db"), 0o600, nil)
	require.NoError(t, err)
	testutil.CleanupAndRequireSuccess(t, db.Close)

	repo, err := accounts.NewBoltRepository(db)
	require.NoError(t, err)

	logger := logging.NewDiscard()
	clock := timeutil.SystemClock{}
	acc := NewAccounts(repo, time.Second, logger)

	m := sessions.NewManager(&sessions.Config{
		Store:   sessions.NewMemoryStore(100, clock),
		Users:   acc,
		Matcher: auth.PlainTextMatcher{},
		Tokens:  auth.NewTokenCodec([]byte("secret"), clock),
		Clock:   clock,
		Logger:  logger,
		TTL:     time.Hour,
	})

	return &itineraryEnv{
		accounts:  acc,
		manager:   m,
		itinerary: NewItinerary(acc, m, logger),
	}
}

// login registers username and returns an authenticated session.
func (e *itineraryEnv) login(t *testing.T, ctx context.Context, username string) *sessions.Session {
	t.Helper()

	require.NoError(t, e.accounts.Register(ctx, username, "pw"))

	s, _, err := e.manager.Start(ctx, "")
	require.NoError(t, err)
	require.NoError(t, e.manager.Authenticate(ctx, s, username, "pw"))

	return s
}

func TestItinerary_AddDestination(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	env := newItineraryEnv(t)
	s := env.login(t, ctx, "alice")

	require.NoError(t, env.itinerary.AddDestination(ctx, s, "Paris"))
	require.NoError(t, env.itinerary.AddDestination(ctx, s, "Rome"))

	assert.Equal(t, []string{"Paris", "Rome"}, s.User.WantToGoList)

	list, err := env.itinerary.ListFor(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Rome"}, list)
}

func TestItinerary_AddDestinationTwice(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	env := newItineraryEnv(t)
	s := env.login(t, ctx, "alice")

	require.NoError(t, env.itinerary.AddDestination(ctx, s, "Paris"))
	assert.ErrorIs(t, env.itinerary.AddDestination(ctx, s, "Paris"), common.ErrAlreadyPresent)

	list, err := env.itinerary.ListFor(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, list)
}

func TestItinerary_Rejections(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	env := newItineraryEnv(t)

	anon, _, err := env.manager.Start(ctx, "")
	require.NoError(t, err)

	assert.ErrorIs(t, env.itinerary.AddDestination(ctx, anon, "Paris"), common.ErrUnauthorized)

	_, err = env.itinerary.ListFor(ctx, anon)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	s := env.login(t, ctx, "alice")
	assert.ErrorIs(t, env.itinerary.AddDestination(ctx, s, ""), common.ErrValidation)
}

func TestItinerary_ConcurrentAdds(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	env := newItineraryEnv(t)
	s := env.login(t, ctx, "alice")

	tok, err := env.manager.Token(s)
	require.NoError(t, err)

	dests := []string{"Bali", "Santorini", "Bali", "Santorini"}
	errs := make([]error, len(dests))

	var wg sync.WaitGroup
	for i, d := range dests {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each request loads its own copy of the session.
			reqSess, _, startErr := env.manager.Start(ctx, tok)
			if startErr != nil {
				errs[i] = startErr

				return
			}

			errs[i] = env.itinerary.AddDestination(ctx, reqSess, d)
		}()
	}
	wg.Wait()

	for _, e := range errs {
		if e != nil {
			assert.ErrorIs(t, e, common.ErrAlreadyPresent)
		}
	}

	list, err := env.itinerary.ListFor(ctx, s)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bali", "Santorini"}, list)
}

type fakeStore struct {
	find func(string) (*models.User, error)
	add  func(string, string) (*models.User, error)
}

func (f *fakeStore) FindByUsername(_ context.Context, u string) (*models.User, error) {
	return f.find(u)
}

func (f *fakeStore) AddToList(_ context.Context, u, d string) (*models.User, error) {
	return f.add(u, d)
}

type fakeKeeper struct {
	cleared   bool
	refreshed *models.User
}

func (k *fakeKeeper) IsAuthenticated(s *sessions.Session) bool { return s != nil && s.User != nil }

func (k *fakeKeeper) Refresh(_ context.Context, s *sessions.Session, u *models.User) error {
	k.refreshed = u
	s.User = u.Clone()

	return nil
}

func (k *fakeKeeper) Clear(_ context.Context, s *sessions.Session) error {
	k.cleared = true
	s.User = nil

	return nil
}

func TestItinerary_VanishedUser(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)

	store := &fakeStore{
		find: func(string) (*models.User, error) { return nil, common.ErrNotFound },
	}
	keeper := &fakeKeeper{}
	it := NewItinerary(store, keeper, logging.NewDiscard())

	s := &sessions.Session{ID: "s", User: &models.User{Username: "ghost"}}
	assert.ErrorIs(t, it.AddDestination(ctx, s, "Paris"), common.ErrUnauthorized)
	assert.True(t, keeper.cleared)
	assert.Nil(t, s.User)
}

func TestItinerary_LostRace(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)

	store := &fakeStore{
		find: func(u string) (*models.User, error) {
			return &models.User{Username: u, WantToGoList: []string{}}, nil
		},
		add: func(string, string) (*models.User, error) { return nil, common.ErrAlreadyPresent },
	}
	keeper := &fakeKeeper{}
	it := NewItinerary(store, keeper, logging.NewDiscard())

	s := &sessions.Session{ID: "s", User: &models.User{Username: "alice"}}
	assert.ErrorIs(t, it.AddDestination(ctx, s, "Bali"), common.ErrAlreadyPresent)
	assert.Nil(t, keeper.refreshed)
	assert.False(t, keeper.cleared)
}

func TestItinerary_RefreshesFromConfirmedRecord(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)

	confirmed := &models.User{Username: "alice", WantToGoList: []string{"Rome", "Bali"}}
	store := &fakeStore{
		find: func(u string) (*models.User, error) {
			return &models.User{Username: u, WantToGoList: []string{"Rome"}}, nil
		},
		add: func(string, string) (*models.User, error) { return confirmed, nil },
	}
	keeper := &fakeKeeper{}
	it := NewItinerary(store, keeper, logging.NewDiscard())

	s := &sessions.Session{ID: "s", User: &models.User{Username: "alice"}}
	require.NoError(t, it.AddDestination(ctx, s, "Bali"))
	assert.Same(t, confirmed, keeper.refreshed)
	assert.Equal(t, []string{"Rome", "Bali"}, s.User.WantToGoList)
}

func TestItinerary_AddRacingLogout(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, testTimeout)
	env := newItineraryEnv(t)
	s := env.login(t, ctx, "alice")

	tok, err := env.manager.Token(s)
	require.NoError(t, err)

	// The add request loaded its copy before the logout request cleared the
	// session.
	inFlight := s.Clone()
	require.NoError(t, env.manager.Clear(ctx, s))

	require.NoError(t, env.itinerary.AddDestination(ctx, inFlight, "Paris"))
	assert.Nil(t, inFlight.User)

	u, err := env.accounts.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, u.WantToGoList)

	resumed, created, err := env.manager.Start(ctx, tok)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, resumed.ID)
	assert.False(t, env.manager.IsAuthenticated(resumed))
}
