// Package common defines sentinel errors shared by the repositories, services
// and HTTP handlers of the want-to-go service. Callers should use errors.Is to
// match these values.
package common

import "github.com/AdguardTeam/golibs/errors"

const (
	// Repository-level errors.
	ErrNotFound       errors.Error = "not found"
	ErrAlreadyExists  errors.Error = "already exists"
	ErrAlreadyPresent errors.Error = "already present"

	// Input errors.
	ErrValidation errors.Error = "validation error"

	// Auth errors.
	ErrInvalidCredentials errors.Error = "invalid username or password"
	ErrUnauthorized       errors.Error = "unauthorized"
	ErrInvalidToken       errors.Error = "invalid token"
	ErrTokenExpired       errors.Error = "token expired"

	// ErrStoreUnavailable is the only error that propagates to the outermost
	// handler as a server failure.
	ErrStoreUnavailable errors.Error = "store unavailable"
)
