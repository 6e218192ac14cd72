package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"cinetrackr/services/sessions"
)

// RegisterRoutes attaches the CineTrackr API surface to the router. Routes
// below the auth boundary are wrapped with RequireSession individually.
func RegisterRoutes(r *mux.Router, auth *AuthHandler, movies *MoviesHandler, sessionsSvc *sessions.Service) {
	r.HandleFunc("/", auth.Home).Methods(http.MethodGet)
	r.HandleFunc("/login", auth.Login).Methods(http.MethodGet)
	r.HandleFunc("/callback", auth.Callback).Methods(http.MethodGet)

	require := func(next http.HandlerFunc) http.HandlerFunc {
		return RequireSession(sessionsSvc, next)
	}
	r.HandleFunc("/profile", require(auth.Profile)).Methods(http.MethodGet)
	r.HandleFunc("/logout", require(auth.Logout)).Methods(http.MethodPost)
	r.HandleFunc("/movies", require(movies.List)).Methods(http.MethodGet)
	r.HandleFunc("/movies", require(movies.Create)).Methods(http.MethodPost)
	r.HandleFunc("/movies/{id}", require(movies.Update)).Methods(http.MethodPut)
	r.HandleFunc("/movies/{id}", require(movies.Delete)).Methods(http.MethodDelete)
}
