package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"cinetrackr/models"
	"cinetrackr/services/identity"
	"cinetrackr/services/sessions"
)

type identityService interface {
	BeginLogin() (redirectURL, nonce string, err error)
	CompleteLogin(ctx context.Context, code, state, expectedNonce string) (string, error)
	ResolveOrCreateUser(ctx context.Context, email string) (*models.User, error)
}

var _ identityService = (*identity.Service)(nil)

// AuthHandler exposes the login, callback, profile, and logout endpoints.
type AuthHandler struct {
	identity    identityService
	sessions    *sessions.Service
	frontendURL string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(identitySvc identityService, sessionsSvc *sessions.Service, frontendURL string) *AuthHandler {
	return &AuthHandler{
		identity:    identitySvc,
		sessions:    sessionsSvc,
		frontendURL: frontendURL,
	}
}

// Home greets unauthenticated visitors.
// GET /
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Welcome to CineTrackr backend"})
}

// Login redirects to the identity provider, parking the anti-forgery nonce in
// a short-lived cookie so the callback can verify the round trip.
// GET /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	redirectURL, nonce, err := h.identity.BeginLogin()
	if err != nil {
		log.Printf("[auth] begin login failed: %v", err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    nonce,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute).Seconds()),
	})
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Callback completes the provider handshake, provisions the user on first
// sight, starts a session, and sends the browser to the dashboard.
// GET /callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var expectedNonce string
	if cookie, err := r.Cookie(stateCookieName); err == nil {
		expectedNonce = cookie.Value
	}
	// The nonce is single-use regardless of outcome.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	query := r.URL.Query()
	email, err := h.identity.CompleteLogin(r.Context(), query.Get("code"), query.Get("state"), expectedNonce)
	if err != nil {
		if errors.Is(err, identity.ErrAuthFailed) {
			jsonError(w, "Authentication failed", http.StatusUnauthorized)
			return
		}
		log.Printf("[auth] callback failed: %v", err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, err := h.identity.ResolveOrCreateUser(r.Context(), email)
	if err != nil {
		log.Printf("[auth] resolve user %q failed: %v", email, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	token, err := h.sessions.Start(user.ID, user.Email)
	if err != nil {
		log.Printf("[auth] start session for %s failed: %v", user.ID, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendURL+"/dashboard", http.StatusFound)
}

// Profile returns the authenticated user's email.
// GET /profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		jsonError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logged in",
		"email":   ident.Email,
	})
}

// Logout invalidates the session and clears the cookie.
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(sessionToken(r))
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
