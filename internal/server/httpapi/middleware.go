package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/thriftedhq/thrifted/internal/common"
	"github.com/thriftedhq/thrifted/internal/server/sessions"
)

type contextKey string

const (
	snapshotKey contextKey = "session_snapshot"
	tokenKey    contextKey = "session_token"
)

// withSession resolves the session cookie, if any, and attaches the snapshot
// to the request context. Requests without a valid session pass through;
// guards decide what is allowed.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err == nil && cookie.Value != "" {
			snap, err := s.sessions.Get(r.Context(), cookie.Value)
			if err == nil {
				ctx := context.WithValue(r.Context(), snapshotKey, snap)
				ctx = context.WithValue(ctx, tokenKey, cookie.Value)
				r = r.WithContext(ctx)
			} else if !errors.Is(err, common.ErrorNoSession) {
				s.writeError(w, r, err)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// snapshotFrom returns the resolved session, or nil for anonymous requests.
func snapshotFrom(ctx context.Context) *sessions.Snapshot {
	snap, _ := ctx.Value(snapshotKey).(*sessions.Snapshot)
	return snap
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// requireSession rejects anonymous requests with 401.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if snapshotFrom(r.Context()) == nil {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		next(w, r)
	})
}

// requireAdmin rejects anonymous requests with 401 and non-admins with 403.
// The admin flag is re-read from the credential store on every request; the
// session snapshot's cached flag is never trusted, so a revoked admin loses
// access immediately.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := snapshotFrom(r.Context())
		if snap == nil {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		isAdmin, err := s.users.IsAdmin(r.Context(), snap.Handle)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !isAdmin {
			s.writeError(w, r, common.ErrorForbidden)
			return
		}
		next(w, r)
	})
}

// clientSource extracts the rate-limit key for the request: the client's
// address without the ephemeral port.
func clientSource(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
