// Package repository contains data access logic separated from HTTP handlers.
// This file defines the venue repository: CRUD, the upcoming show
// aggregation used by the grouped listing and case-insensitive name search.
package repository

import (
	"context"      // context carries deadlines and cancellation to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db DBTX // db is either the pool or a transaction
}

// NewVenueRepo constructs a VenueRepo on the given handle.
func NewVenueRepo(db DBTX) *VenueRepo {
	return &VenueRepo{db: db}
}

const venueColumns = `id, name, address, city, state, phone, facebook_link, image_link, website,
	seeking_talent, seeking_description, created_at, updated_at`

func scanVenue(row interface{ Scan(...any) error }, v *model.Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.Phone, &v.FacebookLink,
		&v.ImageLink, &v.Website, &v.SeekingTalent, &v.SeekingDescription, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a new venue and its genres.  On success the venue's ID
// field is populated with the auto-generated value.  The insert touches two
// tables, so callers should run it inside Store.InTx.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, address, city, state, phone, facebook_link, image_link, website,
	           seeking_talent, seeking_description) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Address, v.City, v.State, v.Phone, v.FacebookLink,
		v.ImageLink, v.Website, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return venueGenres.replace(ctx, r.db, v.ID, v.Genres)
}

// GetByID fetches a venue with its genres.  It returns ErrVenueNotFound if
// no row is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	q := "SELECT " + venueColumns + " FROM venues WHERE id = ?"
	var v model.Venue
	if err := scanVenue(r.db.QueryRowContext(ctx, q, id), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	genres, err := venueGenres.load(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	v.Genres = genres
	return &v, nil
}

// Exists reports whether a venue with the given id exists.
func (r *VenueRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM venues WHERE id = ? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Update overwrites every mutable column of the venue and replaces its genre
// set.  The row is locked first so a missing venue is reported as
// ErrVenueNotFound even when the new values equal the stored ones.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM venues WHERE id = ? FOR UPDATE", v.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	const q = `UPDATE venues
	           SET name = ?, address = ?, city = ?, state = ?, phone = ?, facebook_link = ?, image_link = ?,
	               website = ?, seeking_talent = ?, seeking_description = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, v.Name, v.Address, v.City, v.State, v.Phone, v.FacebookLink,
		v.ImageLink, v.Website, v.SeekingTalent, v.SeekingDescription, v.ID); err != nil {
		return err
	}
	return venueGenres.replace(ctx, r.db, v.ID, v.Genres)
}

// Delete removes a venue and its genres.  A venue that still has shows is
// not deleted and ErrConflict is returned; a missing venue yields
// ErrVenueNotFound.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) error {
	var shows int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows WHERE venue_id = ?", id).Scan(&shows); err != nil {
		return err
	}
	if shows > 0 {
		return ErrConflict
	}
	// venue_genres rows go with the venue (ON DELETE CASCADE)
	res, err := r.db.ExecContext(ctx, "DELETE FROM venues WHERE id = ?", id)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// ListSummaries returns every venue with the number of its shows starting
// strictly after now, ordered by state, city and id so that venues of the
// same area are adjacent.
func (r *VenueRepo) ListSummaries(ctx context.Context, now time.Time) ([]model.VenueSummary, error) {
	const q = `SELECT v.id, v.name, v.city, v.state, COUNT(s.id)
	           FROM venues v
	           LEFT JOIN shows s ON s.venue_id = v.id AND s.start_time > ?
	           GROUP BY v.id, v.name, v.city, v.state
	           ORDER BY v.state, v.city, v.id`
	return r.summaries(ctx, q, now.UTC())
}

// Search returns the venues whose name contains term, ignoring case, each
// annotated with its upcoming show count.  An empty term matches all venues.
func (r *VenueRepo) Search(ctx context.Context, term string, now time.Time) ([]model.VenueSummary, error) {
	const q = `SELECT v.id, v.name, v.city, v.state, COUNT(s.id)
	           FROM venues v
	           LEFT JOIN shows s ON s.venue_id = v.id AND s.start_time > ?
	           WHERE LOWER(v.name) LIKE ? ESCAPE '!'
	           GROUP BY v.id, v.name, v.city, v.state
	           ORDER BY v.id`
	return r.summaries(ctx, q, now.UTC(), likePattern(term))
}

// Recent returns the latest listed venues, newest first.  The upcoming show
// count is not computed.
func (r *VenueRepo) Recent(ctx context.Context, limit int) ([]model.VenueSummary, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, city, state FROM venues ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VenueSummary{}
	for rows.Next() {
		var v model.VenueSummary
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.State); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *VenueRepo) summaries(ctx context.Context, q string, args ...any) ([]model.VenueSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.VenueSummary{}
	for rows.Next() {
		var v model.VenueSummary
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.NumUpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
