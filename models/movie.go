package models

import "time"

// Movie is a tracked title owned by exactly one user. Only the watched and
// want-to-watch flags change after creation; everything else is fixed until delete.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Genres      string    `json:"genres,omitempty"`
	Watched     bool      `json:"watched"`
	WantToWatch bool      `json:"want_to_watch"`
	AddedDate   time.Time `json:"added_date"`
	Rating      *float64  `json:"rating,omitempty"`
	Review      *string   `json:"review,omitempty"`
	UserID      string    `json:"-"`
}

// MovieCreate captures the fields a user may supply when adding a movie.
type MovieCreate struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      string   `json:"genres"`
	Watched     bool     `json:"watched"`
	WantToWatch bool     `json:"want_to_watch"`
	Rating      *float64 `json:"rating"`
	Review      *string  `json:"review"`
}

// MoviePatch is an optional-field update: nil means "leave unchanged", so a
// client sending watched=false is never confused with one omitting the field.
type MoviePatch struct {
	Watched     *bool `json:"watched"`
	WantToWatch *bool `json:"want_to_watch"`
}

// Empty reports whether the patch carries no changes.
func (p MoviePatch) Empty() bool {
	return p.Watched == nil && p.WantToWatch == nil
}
