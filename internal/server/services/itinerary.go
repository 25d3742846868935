package services

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/dmitrijs2005/wanttogo/internal/server/sessions"
)

// AccountStore is the part of Accounts used by Itinerary.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	AddToList(ctx context.Context, username, destination string) (*models.User, error)
}

// SessionKeeper is the part of sessions.Manager used by Itinerary.
type SessionKeeper interface {
	IsAuthenticated(s *sessions.Session) bool
	Refresh(ctx context.Context, s *sessions.Session, u *models.User) error
	Clear(ctx context.Context, s *sessions.Session) error
}

// Itinerary is the only component that mutates want-to-go lists. The store is
// the source of truth; the session snapshot is refreshed only from records
// the store confirmed.
type Itinerary struct {
	store    AccountStore
	sessions SessionKeeper
	logger   logging.Logger
}

// NewItinerary constructs an Itinerary.
func NewItinerary(store AccountStore, keeper SessionKeeper, logger logging.Logger) *Itinerary {
	return &Itinerary{
		store:    store,
		sessions: keeper,
		logger:   logger.With("module", "itinerary"),
	}
}

// AddDestination adds destination to the list of the session's user. It
// returns nil when added, common.ErrAlreadyPresent when the destination is
// already listed, common.ErrValidation for an empty destination and
// common.ErrUnauthorized when the session has no user or the user no longer
// exists; in the latter case the session is cleared.
func (it *Itinerary) AddDestination(ctx context.Context, s *sessions.Session, destination string) error {
	if !it.sessions.IsAuthenticated(s) {
		return common.ErrUnauthorized
	}

	if destination == "" {
		return common.ErrValidation
	}

	username := s.User.Username

	current, err := it.store.FindByUsername(ctx, username)
	if err != nil {
		return it.lookupError(ctx, s, err)
	}

	if current.Has(destination) {
		return common.ErrAlreadyPresent
	}

	// A concurrent add may still win between the check above and this
	// write; the store reports it as ErrAlreadyPresent.
	updated, err := it.store.AddToList(ctx, username, destination)
	if err != nil {
		return it.lookupError(ctx, s, err)
	}

	err = it.sessions.Refresh(ctx, s, updated)
	if errors.Is(err, common.ErrNotFound) {
		it.logger.Debug(ctx, "session ended during add", "username", username)
	} else if err != nil {
		// The write is durable; only the snapshot is stale.
		it.logger.Warn(ctx, "refreshing session", logging.KeyError, err)
	}

	it.logger.Debug(ctx, "destination added", "username", username, "destination", destination)

	return nil
}

// ListFor returns the list of the session's user as stored, oldest first.
func (it *Itinerary) ListFor(ctx context.Context, s *sessions.Session) ([]string, error) {
	if !it.sessions.IsAuthenticated(s) {
		return nil, common.ErrUnauthorized
	}

	u, err := it.store.FindByUsername(ctx, s.User.Username)
	if err != nil {
		return nil, it.lookupError(ctx, s, err)
	}

	return u.WantToGoList, nil
}

// lookupError treats a vanished user as an authentication failure.
func (it *Itinerary) lookupError(ctx context.Context, s *sessions.Session, err error) error {
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	it.logger.Warn(ctx, "session user no longer exists", "username", s.User.Username)

	if clearErr := it.sessions.Clear(ctx, s); clearErr != nil {
		return fmt.Errorf("%w: %w", common.ErrUnauthorized, clearErr)
	}

	return common.ErrUnauthorized
}
