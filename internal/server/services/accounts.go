// Package services contains server-side business logic: the account store
// contract and the itinerary list manager.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
)

// Accounts validates input, bounds every store round trip by a timeout and
// folds backend failures into common.ErrStoreUnavailable.
type Accounts struct {
	repo    accounts.Repository
	logger  logging.Logger
	timeout time.Duration
}

// NewAccounts constructs an Accounts service over repo.
func NewAccounts(repo accounts.Repository, timeout time.Duration, logger logging.Logger) *Accounts {
	return &Accounts{
		repo:    repo,
		logger:  logger.With("module", "accounts"),
		timeout: timeout,
	}
}

// Register creates an account with an empty want-to-go list.
func (s *Accounts) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return common.ErrValidation
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.repo.Create(ctx, &models.User{Username: username, Password: password})
	if err != nil {
		return s.storeError(ctx, "creating user", err)
	}

	s.logger.Info(ctx, "user registered", "username", username)

	return nil
}

// FindByUsername returns the authoritative record of username.
func (s *Accounts) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.storeError(ctx, "finding user", err)
	}

	return u, nil
}

// AddToList adds destination to the list of username as one store operation
// and returns the record confirmed by the store.
func (s *Accounts) AddToList(ctx context.Context, username, destination string) (*models.User, error) {
	if destination == "" {
		return nil, common.ErrValidation
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.repo.AddToList(ctx, username, destination)
	if err != nil {
		return nil, s.storeError(ctx, "adding destination", err)
	}

	return u, nil
}

// storeError passes domain outcomes through and turns everything else into
// common.ErrStoreUnavailable, keeping the cause in the chain.
func (s *Accounts) storeError(ctx context.Context, op string, err error) error {
	switch {
	case
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrAlreadyExists),
		errors.Is(err, common.ErrAlreadyPresent):
		return err
	default:
		s.logger.Error(ctx, op, logging.KeyError, err)

		return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
	}
}
