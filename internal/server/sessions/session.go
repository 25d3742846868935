// Package sessions keeps per-browser state: at most one snapshot of the
// logged-in user, captured at login and refreshed after confirmed writes.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/wanttogo/internal/server/models"
)

// Session is one browser session. User is nil while the session is
// anonymous. The snapshot is never authoritative.
type Session struct {
	Expires time.Time    `json:"expires"`
	User    *models.User `json:"user,omitempty"`
	ID      string       `json:"id"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	c := *s
	c.User = s.User.Clone()

	return &c
}

// Store keeps sessions by ID. Implementations must be safe for concurrent use
// and must hand out copies, so that callers never share mutable state.
type Store interface {
	// Load returns the session or common.ErrNotFound when it is absent or
	// expired.
	Load(ctx context.Context, id string) (s *Session, err error)

	// Save inserts or replaces s.
	Save(ctx context.Context, s *Session) (err error)

	// Replace overwrites s only while a live session with the same ID is
	// stored, and returns common.ErrNotFound otherwise. The check and the
	// write are atomic relative to Delete.
	Replace(ctx context.Context, s *Session) (err error)

	// Delete removes the session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) (err error)

	// Close releases the resources of the store.
	Close() (err error)
}
