package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cinetrackr/models"
)

// MovieRepository owns all SQL touching the movies table. Ownership is part of
// every lookup: a movie belonging to another user is indistinguishable from a
// missing one.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a repository bound to the given connection.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `id, title, year, genres, watched, want_to_watch, added_date, rating, review, user_id`

// Insert stores a new movie row.
func (r *MovieRepository) Insert(ctx context.Context, movie *models.Movie) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (`+movieColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.ID, movie.Title, movie.Year, movie.Genres, movie.Watched, movie.WantToWatch,
		movie.AddedDate, movie.Rating, movie.Review, movie.UserID)
	if err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

// ListByOwner returns every movie owned by userID in stable insertion order.
func (r *MovieRepository) ListByOwner(ctx context.Context, userID string) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = ? ORDER BY added_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// GetOwned returns the movie with the given id if userID owns it, else ErrNotFound.
func (r *MovieRepository) GetOwned(ctx context.Context, userID, id string) (*models.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ? AND user_id = ?`, id, userID)
	var m models.Movie
	if err := scanMovie(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// UpdateFlags applies an optional-field patch to the watched / want_to_watch
// flags in a single statement. Nil fields keep their stored value, so two
// concurrent patches of different fields never clobber each other.
func (r *MovieRepository) UpdateFlags(ctx context.Context, userID, id string, patch models.MoviePatch) (*models.Movie, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies
		 SET watched = COALESCE(?, watched), want_to_watch = COALESCE(?, want_to_watch)
		 WHERE id = ? AND user_id = ?`,
		patch.Watched, patch.WantToWatch, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetOwned(ctx, userID, id)
}

// Delete removes the movie permanently, or reports ErrNotFound under the same
// ownership rule as GetOwned.
func (r *MovieRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM movies WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner, m *models.Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Year, &m.Genres, &m.Watched, &m.WantToWatch,
		&m.AddedDate, &m.Rating, &m.Review, &m.UserID)
}
