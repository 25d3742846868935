package web

import (
	"context"

	"github.com/dmitrijs2005/wanttogo/internal/server/sessions"
)

type ctxKey struct{}

func withSession(ctx context.Context, s *sessions.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// sessionFrom returns the session attached by the session middleware.
func sessionFrom(ctx context.Context) *sessions.Session {
	s, _ := ctx.Value(ctxKey{}).(*sessions.Session)

	return s
}
