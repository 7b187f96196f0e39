// Package service implements the booking catalog: listing, search and
// detail assembly for venues, artists and shows, and the validate-then-write
// discipline every mutation follows.  Reads go straight to the pool; every
// write runs in exactly one unit of work and is reported either as a
// *ValidationError (nothing was written) or a *WriteError (the transaction
// was rolled back).
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// RecentLimit is the number of venues and artists shown on the home page.
const RecentLimit = 10

// publishTimeout bounds the best-effort event publish after a commit.
const publishTimeout = 3 * time.Second

// Publisher delivers domain events.  *queue.Publisher implements it.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Catalog is the application service behind every page.
type Catalog struct {
	uow UnitOfWork
	pub Publisher
	now func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock overrides the source of "now" used to split past and upcoming
// shows.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithPublisher publishes an event after every committed write.
func WithPublisher(p Publisher) Option {
	return func(c *Catalog) { c.pub = p }
}

// NewCatalog constructs a Catalog on uow.
func NewCatalog(uow UnitOfWork, opts ...Option) *Catalog {
	if uow == nil {
		panic("service.NewCatalog: nil unit of work")
	}
	c := &Catalog{uow: uow, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// publish is best effort: the write has already been committed, so a
// broker failure is logged and dropped.
func (c *Catalog) publish(ctx context.Context, ev queue.Event) {
	if c.pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := c.pub.Publish(ctx, ev); err != nil {
		log.Printf("catalog: publish %s %d: %v", ev.Type, ev.EntityID, err)
	}
}

// Recent returns the latest venues and artists for the home page.
func (c *Catalog) Recent(ctx context.Context) (model.Home, error) {
	r := c.uow.Repos()
	venues, err := r.Venues.Recent(ctx, RecentLimit)
	if err != nil {
		return model.Home{}, fmt.Errorf("recent venues: %w", err)
	}
	artists, err := r.Artists.Recent(ctx, RecentLimit)
	if err != nil {
		return model.Home{}, fmt.Errorf("recent artists: %w", err)
	}
	return model.Home{Venues: venues, Artists: artists}, nil
}

// VenueAreas groups every venue by its (city, state) pair.  Groups appear in
// the order their first venue is returned by the store; only pairs that
// have at least one venue appear.
func (c *Catalog) VenueAreas(ctx context.Context) ([]model.Area, error) {
	venues, err := c.uow.Repos().Venues.ListSummaries(ctx, c.now())
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return groupByArea(venues), nil
}

type areaKey struct{ city, state string }

func groupByArea(venues []model.VenueSummary) []model.Area {
	areas := []model.Area{}
	index := map[areaKey]int{}
	for _, v := range venues {
		k := areaKey{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, model.Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, v)
	}
	return areas
}

// SearchVenues matches term case-insensitively against venue names.  The
// term is used as typed, surrounding spaces included; the empty term
// matches every venue.
func (c *Catalog) SearchVenues(ctx context.Context, term string) (model.SearchResult[model.VenueSummary], error) {
	data, err := c.uow.Repos().Venues.Search(ctx, term, c.now())
	if err != nil {
		return model.SearchResult[model.VenueSummary]{}, fmt.Errorf("search venues: %w", err)
	}
	return model.SearchResult[model.VenueSummary]{Term: term, Count: len(data), Data: data}, nil
}

// SearchArtists is SearchVenues for artists.
func (c *Catalog) SearchArtists(ctx context.Context, term string) (model.SearchResult[model.ArtistSummary], error) {
	data, err := c.uow.Repos().Artists.Search(ctx, term, c.now())
	if err != nil {
		return model.SearchResult[model.ArtistSummary]{}, fmt.Errorf("search artists: %w", err)
	}
	return model.SearchResult[model.ArtistSummary]{Term: term, Count: len(data), Data: data}, nil
}

// partition splits shows into past and upcoming relative to now and marks
// each listing.  Input order is preserved in both halves.
func partition(shows []model.ShowListing, now time.Time) (past, upcoming []model.ShowListing) {
	past, upcoming = []model.ShowListing{}, []model.ShowListing{}
	for _, s := range shows {
		s.Upcoming = model.IsUpcoming(s.StartTime, now)
		if s.Upcoming {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return past, upcoming
}

// Venue returns one venue.  It fails with ErrNotFound when id is unknown.
func (c *Catalog) Venue(ctx context.Context, id uint64) (*model.Venue, error) {
	v, err := c.uow.Repos().Venues.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// VenueDetail returns a venue with its shows split into past and upcoming.
// A show whose artist cannot be resolved fails the whole page with
// ErrNotFound.
func (c *Catalog) VenueDetail(ctx context.Context, id uint64) (*model.VenueDetail, error) {
	now := c.now()
	r := c.uow.Repos()
	v, err := r.Venues.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	shows, err := r.Shows.ListByVenue(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	d := &model.VenueDetail{Venue: *v}
	d.PastShows, d.UpcomingShows = partition(shows, now)
	d.PastShowsCount, d.UpcomingShowsCount = len(d.PastShows), len(d.UpcomingShows)
	return d, nil
}

// CreateVenue validates in and inserts a new venue.
func (c *Catalog) CreateVenue(ctx context.Context, in form.VenueInput) (*model.Venue, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	var v model.Venue
	in.Apply(&v)
	err := c.uow.InTx(ctx, func(r Repos) error {
		return r.Venues.Create(ctx, &v)
	})
	if err != nil {
		return nil, &WriteError{Op: "create venue", Err: err}
	}
	c.publish(ctx, queue.NewEvent(queue.VenueCreated, v.ID, v.Name, c.now()))
	return &v, nil
}

// UpdateVenue replaces every mutable field of venue id with in.  An unknown
// id fails with ErrNotFound before the input is looked at.
func (c *Catalog) UpdateVenue(ctx context.Context, id uint64, in form.VenueInput) (*model.Venue, error) {
	var v *model.Venue
	err := c.uow.InTx(ctx, func(r Repos) error {
		var err error
		if v, err = r.Venues.GetByID(ctx, id); err != nil {
			return err
		}
		if errs := in.Validate(); len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}
		in.Apply(v)
		return r.Venues.Update(ctx, v)
	})
	if err = writeResult("edit venue", err); err != nil {
		return nil, err
	}
	c.publish(ctx, queue.NewEvent(queue.VenueUpdated, v.ID, v.Name, c.now()))
	return v, nil
}

// DeleteVenue removes venue id and its genres and returns the deleted
// record.  A venue that still has shows is kept and ErrHasShows returned.
func (c *Catalog) DeleteVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	var v *model.Venue
	err := c.uow.InTx(ctx, func(r Repos) error {
		var err error
		if v, err = r.Venues.GetByID(ctx, id); err != nil {
			return err
		}
		return r.Venues.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrConflict) {
		return v, fmt.Errorf("delete venue %d: %w", id, ErrHasShows)
	}
	if err = writeResult("delete venue", err); err != nil {
		return v, err
	}
	c.publish(ctx, queue.NewEvent(queue.VenueDeleted, v.ID, v.Name, c.now()))
	return v, nil
}

// writeResult classifies the error of a unit of work: not-found and
// validation failures pass through, anything else became a rollback.
func writeResult(op string, err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return notFound(err)
	}
	if _, ok := IsValidation(err); ok {
		return err
	}
	return &WriteError{Op: op, Err: err}
}

// Artists lists every artist by id.
func (c *Catalog) Artists(ctx context.Context) ([]model.ArtistSummary, error) {
	artists, err := c.uow.Repos().Artists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	return artists, nil
}

// Artist returns one artist.  It fails with ErrNotFound when id is unknown.
func (c *Catalog) Artist(ctx context.Context, id uint64) (*model.Artist, error) {
	a, err := c.uow.Repos().Artists.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ArtistDetail returns an artist with its shows split into past and
// upcoming.
func (c *Catalog) ArtistDetail(ctx context.Context, id uint64) (*model.ArtistDetail, error) {
	now := c.now()
	r := c.uow.Repos()
	a, err := r.Artists.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	shows, err := r.Shows.ListByArtist(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	d := &model.ArtistDetail{Artist: *a}
	d.PastShows, d.UpcomingShows = partition(shows, now)
	d.PastShowsCount, d.UpcomingShowsCount = len(d.PastShows), len(d.UpcomingShows)
	return d, nil
}

// CreateArtist validates in and inserts a new artist.
func (c *Catalog) CreateArtist(ctx context.Context, in form.ArtistInput) (*model.Artist, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	var a model.Artist
	in.Apply(&a)
	err := c.uow.InTx(ctx, func(r Repos) error {
		return r.Artists.Create(ctx, &a)
	})
	if err != nil {
		return nil, &WriteError{Op: "create artist", Err: err}
	}
	c.publish(ctx, queue.NewEvent(queue.ArtistCreated, a.ID, a.Name, c.now()))
	return &a, nil
}

// UpdateArtist replaces every mutable field of artist id with in.
func (c *Catalog) UpdateArtist(ctx context.Context, id uint64, in form.ArtistInput) (*model.Artist, error) {
	var a *model.Artist
	err := c.uow.InTx(ctx, func(r Repos) error {
		var err error
		if a, err = r.Artists.GetByID(ctx, id); err != nil {
			return err
		}
		if errs := in.Validate(); len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}
		in.Apply(a)
		return r.Artists.Update(ctx, a)
	})
	if err = writeResult("edit artist", err); err != nil {
		return nil, err
	}
	c.publish(ctx, queue.NewEvent(queue.ArtistUpdated, a.ID, a.Name, c.now()))
	return a, nil
}

// CreateShow validates in, checks that both the artist and the venue exist
// and inserts the show.  Resubmitting creates another show.
func (c *Catalog) CreateShow(ctx context.Context, in form.ShowInput) (*model.Show, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	s := in.Show()
	err := c.uow.InTx(ctx, func(r Repos) error {
		var errs form.Errors
		ok, err := r.Artists.Exists(ctx, s.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			errs.Add(form.ShowSpec, "artist_id", "does not match any artist")
		}
		if ok, err = r.Venues.Exists(ctx, s.VenueID); err != nil {
			return err
		}
		if !ok {
			errs.Add(form.ShowSpec, "venue_id", "does not match any venue")
		}
		if len(errs) > 0 {
			return &ValidationError{Errors: errs}
		}
		return r.Shows.Create(ctx, &s)
	})
	if errors.Is(err, repository.ErrReferenceMissing) {
		var errs form.Errors
		errs.Add(form.ShowSpec, "artist_id", "artist or venue does not exist")
		return nil, &ValidationError{Errors: errs}
	}
	if err = writeResult("create show", err); err != nil {
		return nil, err
	}
	ev := queue.NewEvent(queue.ShowListed, s.ID, "", c.now())
	ev.VenueID, ev.ArtistID = s.VenueID, s.ArtistID
	ev.StartTime = s.StartTime.UTC().Format(time.RFC3339)
	c.publish(ctx, ev)
	return &s, nil
}

// Shows lists shows ordered by start time; when selects all, upcoming or
// past shows.
func (c *Catalog) Shows(ctx context.Context, when model.When) ([]model.ShowListing, error) {
	now := c.now()
	shows, err := c.uow.Repos().Shows.List(ctx, when, now)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	for i := range shows {
		shows[i].Upcoming = model.IsUpcoming(shows[i].StartTime, now)
	}
	return shows, nil
}
