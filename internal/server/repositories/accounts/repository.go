// Package accounts persists user accounts and their want-to-go lists.
//
// Three backends implement Repository: MongoDB (one document per user),
// PostgreSQL (users plus an ordered want_to_go table) and an embedded bbolt
// file. Each backend performs AddToList as a single atomic step, so
// concurrent additions for the same user neither lose entries nor produce
// duplicates.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/wanttogo/internal/server/models"
)

// Repository is the account store.
type Repository interface {
	// Create stores a new account with an empty want-to-go list. It returns
	// common.ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) error

	// FindByUsername returns the stored account or common.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// AddToList appends destination to the user's list unless it is already
	// there, and returns the record as it stands after the write. It returns
	// common.ErrAlreadyPresent for a duplicate and common.ErrNotFound for an
	// unknown user.
	AddToList(ctx context.Context, username, destination string) (*models.User, error)
}
