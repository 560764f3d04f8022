package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shaj13/go-guardian/auth"
	"go.uber.org/zap"

	"github.com/linesmerrill/relief-chat-api/config"
	"github.com/linesmerrill/relief-chat-api/databases"
	"github.com/linesmerrill/relief-chat-api/models"
)

// HandshakeStrategyKey is the go-guardian key of the externally asserted identity strategy
const HandshakeStrategyKey = auth.StrategyKey("Relief.Handshake.Strategy")

// Handshake credentials, read from the query string first and then from headers
const (
	UserIDParam    = "userId"
	UserRoleParam  = "userRole"
	UserIDHeader   = "X-User-Id"
	UserRoleHeader = "X-User-Role"
)

// Handshake authenticates a connection request before it is upgraded. The
// relay trusts the asserted identity and role, it only checks they are usable.
type Handshake struct {
	authenticator auth.Authenticator
}

// sessionInfo carries the unregistered session through go-guardian
type sessionInfo struct {
	auth.Info
	session *models.Session
}

type handshakeStrategy struct {
	sessions databases.SessionDatabase
}

// NewHandshake sets up go-guardian with the handshake strategy over the session registry
func NewHandshake(sessions databases.SessionDatabase) *Handshake {
	authenticator := auth.New()
	authenticator.EnableStrategy(HandshakeStrategyKey, handshakeStrategy{sessions: sessions})
	return &Handshake{authenticator: authenticator}
}

// Authenticate implements auth.Strategy
func (h handshakeStrategy) Authenticate(_ context.Context, r *http.Request) (auth.Info, error) {
	identity, role := credentials(r)
	s, err := h.sessions.Authenticate(identity, role)
	if err != nil {
		return nil, err
	}
	user := auth.NewDefaultUser(s.Identity, s.Identity, []string{string(s.Role)}, nil)
	return sessionInfo{Info: user, session: s}, nil
}

func credentials(r *http.Request) (identity, role string) {
	q := r.URL.Query()
	identity = strings.TrimSpace(q.Get(UserIDParam))
	if identity == "" {
		identity = strings.TrimSpace(r.Header.Get(UserIDHeader))
	}
	role = q.Get(UserRoleParam)
	if role == "" {
		role = r.Header.Get(UserRoleHeader)
	}
	return identity, role
}

// Authenticate returns a session for the request, not yet registered
func (h *Handshake) Authenticate(r *http.Request) (*models.Session, error) {
	info, err := h.authenticator.Authenticate(r)
	if err != nil {
		var authErr *models.AuthenticationError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		return nil, &models.AuthenticationError{Reason: err.Error()}
	}
	si, ok := info.(sessionInfo)
	if !ok {
		return nil, &models.AuthenticationError{Reason: "unexpected user info"}
	}
	return si.session, nil
}

// Middleware refuses requests without a usable identity and role with a 401,
// otherwise it stores the session in the request context.
func (h *Handshake) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := h.Authenticate(r)
		if err != nil {
			config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, err)
			return
		}
		zap.S().Debugw("handshake authenticated",
			"identity", s.Identity,
			"role", s.Role)
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}
