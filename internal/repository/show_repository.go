// Package repository contains data access logic for Show domain operations.
// A Show is the join entity between an artist and a venue; its listings
// carry the names and images of both sides.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db DBTX
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db DBTX) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show and assigns the generated ID back to the show
// struct.  A dangling artist or venue reference is reported as
// ErrReferenceMissing.  Start times are stored in UTC.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.ArtistID, s.VenueID, s.StartTime.UTC())
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// The listing queries LEFT JOIN both sides so that a show whose artist or
// venue row has vanished is reported instead of silently dropped.
const listingSelect = `SELECT s.id, s.venue_id, v.name, v.image_link, s.artist_id, a.name, a.image_link, s.start_time
	FROM shows s
	LEFT JOIN venues v  ON v.id = s.venue_id
	LEFT JOIN artists a ON a.id = s.artist_id`

// List returns shows ordered by start time ascending.  when restricts the
// result to upcoming (start_time > now) or past shows; WhenAll returns
// every show.
func (r *ShowRepo) List(ctx context.Context, when model.When, now time.Time) ([]model.ShowListing, error) {
	q := listingSelect
	var args []any
	switch when {
	case model.WhenUpcoming:
		q += " WHERE s.start_time > ?"
		args = append(args, now.UTC())
	case model.WhenPast:
		q += " WHERE s.start_time <= ?"
		args = append(args, now.UTC())
	}
	q += " ORDER BY s.start_time ASC, s.id ASC"
	return r.listings(ctx, q, args...)
}

// ListByVenue returns every show hosted by a venue ordered by start time.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+" WHERE s.venue_id = ? ORDER BY s.start_time ASC, s.id ASC", venueID)
}

// ListByArtist returns every show of an artist ordered by start time.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+" WHERE s.artist_id = ? ORDER BY s.start_time ASC, s.id ASC", artistID)
}

func (r *ShowRepo) listings(ctx context.Context, q string, args ...any) ([]model.ShowListing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShowListing{}
	for rows.Next() {
		var (
			l                       model.ShowListing
			venueName, venueImage   sql.NullString
			artistName, artistImage sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.VenueID, &venueName, &venueImage, &l.ArtistID, &artistName, &artistImage, &l.StartTime); err != nil {
			return nil, err
		}
		if !venueName.Valid {
			return nil, ErrVenueNotFound
		}
		if !artistName.Valid {
			return nil, ErrArtistNotFound
		}
		l.VenueName, l.VenueImageLink = venueName.String, venueImage.String
		l.ArtistName, l.ArtistImageLink = artistName.String, artistImage.String
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
