package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrArtistNotFound is returned when an artist lookup fails.
var ErrArtistNotFound = errors.New("artist not found")

// ArtistRepo provides persistence for artists and their genre sets.
type ArtistRepo struct {
	db DBTX
}

// NewArtistRepo constructs an ArtistRepo on the given handle.
func NewArtistRepo(db DBTX) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, name, city, state, phone, facebook_link, image_link, website,
	seeking_venue, seeking_description, created_at, updated_at`

func scanArtist(row interface{ Scan(...any) error }, a *model.Artist) error {
	return row.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.FacebookLink, &a.ImageLink,
		&a.Website, &a.SeekingVenue, &a.SeekingDescription, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new artist and its genres and sets a.ID.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, facebook_link, image_link, website,
	           seeking_venue, seeking_description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.FacebookLink, a.ImageLink,
		a.Website, a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return artistGenres.replace(ctx, r.db, a.ID, a.Genres)
}

// GetByID retrieves an artist with its genres.  It returns ErrArtistNotFound
// when no row is found.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	q := "SELECT " + artistColumns + " FROM artists WHERE id = ?"
	var a model.Artist
	if err := scanArtist(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	genres, err := artistGenres.load(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	a.Genres = genres
	return &a, nil
}

// Exists reports whether an artist with the given id exists.
func (r *ArtistRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM artists WHERE id = ? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Update overwrites every mutable column and the genre set, see VenueRepo.Update.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM artists WHERE id = ? FOR UPDATE", a.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrArtistNotFound
		}
		return err
	}
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, facebook_link = ?, image_link = ?, website = ?,
	               seeking_venue = ?, seeking_description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.FacebookLink, a.ImageLink,
		a.Website, a.SeekingVenue, a.SeekingDescription, a.ID); err != nil {
		return err
	}
	return artistGenres.replace(ctx, r.db, a.ID, a.Genres)
}

// List returns id and name of every artist ordered by id.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistSummary, error) {
	return r.names(ctx, "SELECT id, name FROM artists ORDER BY id")
}

// Recent returns the latest listed artists, newest first.
func (r *ArtistRepo) Recent(ctx context.Context, limit int) ([]model.ArtistSummary, error) {
	return r.names(ctx, "SELECT id, name FROM artists ORDER BY id DESC LIMIT ?", limit)
}

// Search returns artists whose name contains term, ignoring case, with
// their upcoming show counts.
func (r *ArtistRepo) Search(ctx context.Context, term string, now time.Time) ([]model.ArtistSummary, error) {
	const q = `SELECT a.id, a.name, COUNT(s.id)
	           FROM artists a
	           LEFT JOIN shows s ON s.artist_id = a.id AND s.start_time > ?
	           WHERE LOWER(a.name) LIKE ? ESCAPE '!'
	           GROUP BY a.id, a.name
	           ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q, now.UTC(), likePattern(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistSummary{}
	for rows.Next() {
		var a model.ArtistSummary
		if err := rows.Scan(&a.ID, &a.Name, &a.NumUpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ArtistRepo) names(ctx context.Context, q string, args ...any) ([]model.ArtistSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ArtistSummary{}
	for rows.Next() {
		var a model.ArtistSummary
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
