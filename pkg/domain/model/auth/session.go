package auth

import (
	"context"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
)

// Session is the verified identity of the caller for one request
type Session struct {
	UserID    types.UserID
	Email     string
	Role      types.Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the session has the admin role
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == types.RoleAdmin
}

type ctxSessionKey struct{}

// ContextWithSession returns a child context carrying the session
func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey{}, s)
}

// SessionFromContext returns the session, or nil for anonymous requests
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxSessionKey{}).(*Session)
	return s
}
