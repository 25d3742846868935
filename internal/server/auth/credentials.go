package auth

import "crypto/subtle"

// PasswordMatcher decides whether a submitted password matches the stored
// one.
type PasswordMatcher interface {
	Match(stored, candidate string) (ok bool)
}

// PlainTextMatcher compares clear-text passwords byte for byte.
type PlainTextMatcher struct{}

// type check
var _ PasswordMatcher = PlainTextMatcher{}

// Match implements the [PasswordMatcher] interface for PlainTextMatcher.
func (PlainTextMatcher) Match(stored, candidate string) (ok bool) {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
