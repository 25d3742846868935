package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/dmitrijs2005/wanttogo/internal/logging"
	"github.com/dmitrijs2005/wanttogo/internal/server/auth"
	"github.com/dmitrijs2005/wanttogo/internal/server/models"
	"github.com/google/uuid"
)

// UserFinder looks accounts up in the account store.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Decision is the outcome of RequireAuthenticated.
type Decision int

const (
	// Proceed lets the request through.
	Proceed Decision = iota

	// Redirect sends the client to the login page.
	Redirect
)

// Config is the configuration of a Manager.
type Config struct {
	// Store keeps the sessions. It must not be nil.
	Store Store

	// Users resolves credentials on login. It must not be nil.
	Users UserFinder

	// Matcher compares passwords. It must not be nil.
	Matcher auth.PasswordMatcher

	// Tokens signs the session cookie. It must not be nil.
	Tokens *auth.TokenCodec

	// Clock is used to compute expiry. It must not be nil.
	Clock timeutil.Clock

	// Logger must not be nil.
	Logger logging.Logger

	// TTL is the lifetime of a session. It must be positive.
	TTL time.Duration
}

// Manager implements the session state machine:
//
//	Anonymous --Authenticate--> Authenticated --Clear/expiry--> Anonymous
type Manager struct {
	store   Store
	users   UserFinder
	matcher auth.PasswordMatcher
	tokens  *auth.TokenCodec
	clock   timeutil.Clock
	logger  logging.Logger
	ttl     time.Duration
}

// NewManager returns a properly initialized *Manager.
func NewManager(conf *Config) *Manager {
	return &Manager{
		store:   conf.Store,
		users:   conf.Users,
		matcher: conf.Matcher,
		tokens:  conf.Tokens,
		clock:   conf.Clock,
		logger:  conf.Logger,
		ttl:     conf.TTL,
	}
}

// Start returns the session referenced by token, or a new anonymous session
// when the token is empty, invalid, expired or points to nothing. created
// reports whether a new token must be sent to the client.
func (m *Manager) Start(ctx context.Context, token string) (s *Session, created bool, err error) {
	if token != "" {
		s, err = m.resume(ctx, token)
		if err == nil {
			return s, false, nil
		}

		m.logger.Debug(ctx, "starting new session", logging.KeyError, err)
	}

	s = &Session{
		ID:      uuid.NewString(),
		Expires: m.clock.Now().Add(m.ttl),
	}

	if err = m.store.Save(ctx, s); err != nil {
		return nil, false, fmt.Errorf("saving session: %w", err)
	}

	return s, true, nil
}

// resume verifies token and loads the session it names.
func (m *Manager) resume(ctx context.Context, token string) (s *Session, err error) {
	id, err := m.tokens.SessionIDFromToken(token)
	if err != nil {
		return nil, err
	}

	return m.store.Load(ctx, id)
}

// Token returns the signed cookie value for s.
func (m *Manager) Token(s *Session) (string, error) {
	return m.tokens.GenerateToken(s.ID, s.Expires)
}

// IsAuthenticated reports whether s holds a user.
func (m *Manager) IsAuthenticated(s *Session) (ok bool) {
	return s != nil && s.User != nil
}

// RequireAuthenticated gates protected operations. location is the login
// page when d is Redirect.
func (m *Manager) RequireAuthenticated(s *Session) (d Decision, location string) {
	if m.IsAuthenticated(s) {
		return Proceed, ""
	}

	return Redirect, common.LoginPath
}

// Authenticate checks the credentials against the account store and, on
// success, stores a copy of the user in s. s is left unmodified on any
// failure. Empty fields yield common.ErrValidation; an unknown user or a
// wrong password yields common.ErrInvalidCredentials.
func (m *Manager) Authenticate(ctx context.Context, s *Session, username, password string) (err error) {
	if username == "" || password == "" {
		return common.ErrValidation
	}

	u, err := m.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidCredentials
		}

		return err
	}

	if !m.matcher.Match(u.Password, password) {
		return common.ErrInvalidCredentials
	}

	next := s.Clone()
	next.User = snapshot(u)
	if err = m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	*s = *next

	return nil
}

// Refresh replaces the user snapshot in s with u, which must be the record
// the store confirmed after a write. If s has been cleared or has expired in
// the meantime, it is not brought back: s becomes anonymous and the error is
// common.ErrNotFound.
func (m *Manager) Refresh(ctx context.Context, s *Session, u *models.User) (err error) {
	next := s.Clone()
	next.User = snapshot(u)

	err = m.store.Replace(ctx, next)
	if errors.Is(err, common.ErrNotFound) {
		s.User = nil

		return common.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	*s = *next

	return nil
}

// snapshot returns the copy of u kept in sessions. The password never leaves
// the account store.
func snapshot(u *models.User) (c *models.User) {
	c = u.Clone()
	c.Password = ""

	return c
}

// Clear drops the user from s and forgets the session.
func (m *Manager) Clear(ctx context.Context, s *Session) (err error) {
	s.User = nil

	if err = m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	return nil
}

// TTL returns the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
