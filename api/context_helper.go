package api

import (
	"context"

	"github.com/linesmerrill/relief-chat-api/models"
)

// sessionContextKey is a type for context keys
type sessionContextKey struct{}

// WithSession adds the authenticated handshake session to the context
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// SessionFromContext returns the session stored by the handshake middleware
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(*models.Session)
	return s, ok && s != nil
}
