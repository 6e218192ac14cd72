package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"cinetrackr/services/sessions"
)

// SessionCookieName carries the opaque session token between requests.
const SessionCookieName = "cinetrackr_session"

// stateCookieName round-trips the OAuth anti-forgery nonce through the browser.
const stateCookieName = "cinetrackr_oauth_state"

type contextKey string

const identityContextKey contextKey = "cinetrackr.identity"

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// sessionToken extracts the opaque token from the session cookie, falling back
// to a bearer Authorization header for non-browser clients.
func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireSession wraps a handler so it only runs for requests carrying a live
// session, placing the resolved identity in the request context.
func RequireSession(svc *sessions.Service, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := svc.Current(sessionToken(r))
		if !ok {
			jsonError(w, "Unauthenticated", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// identityFromContext returns the identity stored by RequireSession, or false
// when the request never passed through it.
func identityFromContext(ctx context.Context) (sessions.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(sessions.Identity)
	return identity, ok
}
