package movies_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cinetrackr/internal/database"
	"cinetrackr/models"
	"cinetrackr/services/movies"
)

func newTestService(t *testing.T) (*movies.Service, *database.DB) {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return movies.NewService(db.Movies), db
}

func seedUser(t *testing.T, db *database.DB, id, email string) {
	t.Helper()
	user := &models.User{ID: id, Email: email}
	if err := db.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCreateThenListRoundTrip(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", models.MovieCreate{Title: "Dune", Year: 2021})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected created movie to have a generated id")
	}
	if created.Watched || created.WantToWatch {
		t.Fatalf("expected both flags to default to false, got %+v", created)
	}
	if created.AddedDate.IsZero() {
		t.Fatalf("expected added date to be set at creation")
	}

	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one movie, got %d", len(list))
	}
	got := list[0]
	if got.ID != created.ID || got.Title != "Dune" || got.Year != 2021 || got.Watched || got.WantToWatch {
		t.Fatalf("unexpected listed movie: %+v", got)
	}
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	cases := []struct {
		name  string
		input models.MovieCreate
	}{
		{"missing title", models.MovieCreate{Year: 2021}},
		{"blank title", models.MovieCreate{Title: "   ", Year: 2021}},
		{"missing year", models.MovieCreate{Title: "Dune"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "user-a", tc.input); !errors.Is(err, movies.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Nothing gets persisted on validation failure.
	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no persisted movies, got %d", len(list))
	}
}

func TestCreateKeepsOptionalFields(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	rating := 4.5
	review := "Sand. So much sand."
	_, err := svc.Create(ctx, "user-a", models.MovieCreate{
		Title:       "Dune",
		Year:        2021,
		Genres:      "sci-fi, adventure",
		WantToWatch: true,
		Rating:      &rating,
		Review:      &review,
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one movie, got %d", len(list))
	}
	got := list[0]
	if got.Genres != "sci-fi, adventure" || !got.WantToWatch {
		t.Fatalf("unexpected stored movie: %+v", got)
	}
	if got.Rating == nil || *got.Rating != rating {
		t.Fatalf("expected rating %v, got %v", rating, got.Rating)
	}
	if got.Review == nil || *got.Review != review {
		t.Fatalf("expected review to round-trip, got %v", got.Review)
	}
}

func TestUpdateChangesOnlySuppliedFields(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", models.MovieCreate{Title: "Dune", Year: 2021, WantToWatch: true})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	updated, err := svc.Update(ctx, "user-a", created.ID, models.MoviePatch{Watched: boolPtr(true)})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if !updated.Watched {
		t.Fatalf("expected watched to flip to true")
	}
	if !updated.WantToWatch {
		t.Fatalf("expected want_to_watch to stay unchanged")
	}
	if updated.Title != "Dune" || updated.Year != 2021 {
		t.Fatalf("expected immutable fields to stay unchanged, got %+v", updated)
	}

	// Clearing a flag must be distinguishable from omitting it.
	updated, err = svc.Update(ctx, "user-a", created.ID, models.MoviePatch{WantToWatch: boolPtr(false)})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if !updated.Watched || updated.WantToWatch {
		t.Fatalf("expected watched=true want_to_watch=false, got %+v", updated)
	}
}

func TestUpdateWithEmptyPatchStillChecksOwnership(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", models.MovieCreate{Title: "Dune", Year: 2021})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	got, err := svc.Update(ctx, "user-a", created.ID, models.MoviePatch{})
	if err != nil {
		t.Fatalf("empty patch returned error: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected the stored record back, got %+v", got)
	}

	if _, err := svc.Update(ctx, "user-a", "no-such-id", models.MoviePatch{}); !errors.Is(err, movies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestForeignMoviesAreIndistinguishableFromMissing(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	seedUser(t, db, "user-b", "b@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", models.MovieCreate{Title: "Dune", Year: 2021})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if _, err := svc.Update(ctx, "user-b", created.ID, models.MoviePatch{Watched: boolPtr(true)}); !errors.Is(err, movies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := svc.Delete(ctx, "user-b", created.ID); !errors.Is(err, movies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if _, err := svc.Update(ctx, "user-b", "no-such-id", models.MoviePatch{Watched: boolPtr(true)}); !errors.Is(err, movies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	// The foreign attempts must not have touched the record.
	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 1 || list[0].Watched {
		t.Fatalf("expected owner's movie to be unchanged, got %+v", list)
	}
}

func TestListIsScopedToOwner(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	seedUser(t, db, "user-b", "b@x.com")
	ctx := context.Background()

	// Interleave creates across both users.
	titles := []struct {
		user  string
		title string
	}{
		{"user-a", "Dune"},
		{"user-b", "Heat"},
		{"user-a", "Arrival"},
		{"user-b", "Ronin"},
		{"user-a", "Sicario"},
	}
	for _, c := range titles {
		if _, err := svc.Create(ctx, c.user, models.MovieCreate{Title: c.title, Year: 2000}); err != nil {
			t.Fatalf("create %q returned error: %v", c.title, err)
		}
	}

	listA, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(listA) != 3 {
		t.Fatalf("expected 3 movies for user-a, got %d", len(listA))
	}
	for _, m := range listA {
		if m.Title == "Heat" || m.Title == "Ronin" {
			t.Fatalf("user-a list leaked a foreign movie: %+v", m)
		}
	}

	listB, err := svc.List(ctx, "user-b")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(listB) != 2 {
		t.Fatalf("expected 2 movies for user-b, got %d", len(listB))
	}
}

func TestDeleteRemovesPermanently(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "user-a", "a@x.com")
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-a", models.MovieCreate{Title: "Dune", Year: 2021})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	if err := svc.Delete(ctx, "user-a", created.ID); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}

	list, err := svc.List(ctx, "user-a")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}

	if err := svc.Delete(ctx, "user-a", created.ID); !errors.Is(err, movies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
