package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTextMatcher(t *testing.T) {
	m := PlainTextMatcher{}

	assert.True(t, m.Match("secret", "secret"))
	assert.False(t, m.Match("secret", "Secret"))
	assert.False(t, m.Match("secret", "secret "))
	assert.False(t, m.Match("secret", ""))
	assert.True(t, m.Match("", ""))
}
