// Package auth signs session cookies and compares credentials.
package auth

import (
	"fmt"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/dmitrijs2005/wanttogo/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the session the cookie points to.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// TokenCodec issues and verifies HS256 session tokens.
type TokenCodec struct {
	clock  timeutil.Clock
	secret []byte
}

// NewTokenCodec returns a codec signing with secret. clock must not be nil.
func NewTokenCodec(secret []byte, clock timeutil.Clock) *TokenCodec {
	return &TokenCodec{secret: secret, clock: clock}
}

// GenerateToken returns a signed token for sessionID valid until expiresAt.
func (c *TokenCodec) GenerateToken(sessionID string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(c.clock.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
	})

	return token.SignedString(c.secret)
}

// SessionIDFromToken verifies tokenString and returns its session ID. It
// returns common.ErrTokenExpired for an expired token and
// common.ErrInvalidToken for anything else that fails verification.
func (c *TokenCodec) SessionIDFromToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}

		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
