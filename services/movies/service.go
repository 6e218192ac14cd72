package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinetrackr/internal/database"
	"cinetrackr/models"
)

var (
	// ErrNotFound is returned when a movie does not exist for the requesting
	// user. A movie owned by someone else reports the same error: ownership is
	// part of the lookup, not a separate check.
	ErrNotFound = errors.New("movie not found")
	// ErrValidation is returned when a required field is missing.
	ErrValidation = errors.New("title and year are required")
)

// Service performs user-scoped CRUD against the movie store.
type Service struct {
	repo *database.MovieRepository
}

// NewService returns a movie service backed by the given repository.
func NewService(repo *database.MovieRepository) *Service {
	return &Service{repo: repo}
}

// List returns every movie owned by userID in insertion order. A user with no
// movies gets an empty slice, never someone else's records.
func (s *Service) List(ctx context.Context, userID string) ([]models.Movie, error) {
	return s.repo.ListByOwner(ctx, userID)
}

// Create validates and persists a new movie owned by userID, returning the
// stored record with its generated id. Nothing is persisted on validation
// failure.
func (s *Service) Create(ctx context.Context, userID string, input models.MovieCreate) (*models.Movie, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.Year == 0 {
		return nil, ErrValidation
	}

	movie := &models.Movie{
		ID:          uuid.NewString(),
		Title:       title,
		Year:        input.Year,
		Genres:      strings.TrimSpace(input.Genres),
		Watched:     input.Watched,
		WantToWatch: input.WantToWatch,
		AddedDate:   time.Now().UTC(),
		Rating:      input.Rating,
		Review:      input.Review,
		UserID:      userID,
	}
	if err := s.repo.Insert(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

// Update applies the patch to the movie with the given id, provided userID
// owns it. Absent patch fields keep their stored values.
func (s *Service) Update(ctx context.Context, userID, movieID string, patch models.MoviePatch) (*models.Movie, error) {
	if patch.Empty() {
		// Nothing to change; still enforce the ownership-checked lookup.
		movie, err := s.repo.GetOwned(ctx, userID, movieID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return movie, err
	}

	movie, err := s.repo.UpdateFlags(ctx, userID, movieID, patch)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return movie, nil
}

// Delete permanently removes the movie with the given id, provided userID
// owns it.
func (s *Service) Delete(ctx context.Context, userID, movieID string) error {
	err := s.repo.Delete(ctx, userID, movieID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}
