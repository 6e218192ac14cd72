package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"cinetrackr/models"
	moviesvc "cinetrackr/services/movies"
)

type movieService interface {
	List(ctx context.Context, userID string) ([]models.Movie, error)
	Create(ctx context.Context, userID string, input models.MovieCreate) (*models.Movie, error)
	Update(ctx context.Context, userID, movieID string, patch models.MoviePatch) (*models.Movie, error)
	Delete(ctx context.Context, userID, movieID string) error
}

var _ movieService = (*moviesvc.Service)(nil)

// MoviesHandler exposes the per-user movie CRUD endpoints. Every route is
// registered behind RequireSession, so the identity is always in context.
type MoviesHandler struct {
	service movieService
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(s movieService) *MoviesHandler {
	return &MoviesHandler{service: s}
}

// List returns the authenticated user's movies.
// GET /movies
func (h *MoviesHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		jsonError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	list, err := h.service.List(r.Context(), ident.UserID)
	if err != nil {
		log.Printf("[movies] list for %s failed: %v", ident.UserID, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"movies": list})
}

// Create adds a movie owned by the authenticated user.
// POST /movies
func (h *MoviesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		jsonError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	var input models.MovieCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.service.Create(r.Context(), ident.UserID, input)
	if err != nil {
		if errors.Is(err, moviesvc.ErrValidation) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("[movies] create for %s failed: %v", ident.UserID, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Movie added successfully",
		"movie":   movie,
	})
}

// Update patches the watched / want-to-watch flags of an owned movie.
// PUT /movies/{id}
func (h *MoviesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		jsonError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	var patch models.MoviePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	movie, err := h.service.Update(r.Context(), ident.UserID, mux.Vars(r)["id"], patch)
	if err != nil {
		if errors.Is(err, moviesvc.ErrNotFound) {
			jsonError(w, "Movie not found", http.StatusNotFound)
			return
		}
		log.Printf("[movies] update for %s failed: %v", ident.UserID, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Movie updated successfully",
		"movie":   movie,
	})
}

// Delete removes an owned movie permanently.
// DELETE /movies/{id}
func (h *MoviesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFromContext(r.Context())
	if !ok {
		jsonError(w, "Unauthenticated", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), ident.UserID, mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, moviesvc.ErrNotFound) {
			jsonError(w, "Movie not found", http.StatusNotFound)
			return
		}
		log.Printf("[movies] delete for %s failed: %v", ident.UserID, err)
		jsonError(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Movie deleted successfully"})
}
