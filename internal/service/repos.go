package service

import (
	"context"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// VenueRepository is the venue storage used by the catalog.  It is
// implemented by *repository.VenueRepo.
type VenueRepository interface {
	Create(ctx context.Context, v *model.Venue) error
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, v *model.Venue) error
	Delete(ctx context.Context, id uint64) error
	ListSummaries(ctx context.Context, now time.Time) ([]model.VenueSummary, error)
	Search(ctx context.Context, term string, now time.Time) ([]model.VenueSummary, error)
	Recent(ctx context.Context, limit int) ([]model.VenueSummary, error)
}

// ArtistRepository is the artist storage used by the catalog.
type ArtistRepository interface {
	Create(ctx context.Context, a *model.Artist) error
	GetByID(ctx context.Context, id uint64) (*model.Artist, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	Update(ctx context.Context, a *model.Artist) error
	List(ctx context.Context) ([]model.ArtistSummary, error)
	Recent(ctx context.Context, limit int) ([]model.ArtistSummary, error)
	Search(ctx context.Context, term string, now time.Time) ([]model.ArtistSummary, error)
}

// ShowRepository is the show storage used by the catalog.
type ShowRepository interface {
	Create(ctx context.Context, s *model.Show) error
	List(ctx context.Context, when model.When, now time.Time) ([]model.ShowListing, error)
	ListByVenue(ctx context.Context, venueID uint64) ([]model.ShowListing, error)
	ListByArtist(ctx context.Context, artistID uint64) ([]model.ShowListing, error)
}

// Repos is one set of repositories, bound either to the pool (reads) or to
// a single transaction (inside InTx).
type Repos struct {
	Venues  VenueRepository
	Artists ArtistRepository
	Shows   ShowRepository
}

// UnitOfWork hands out repositories.  InTx runs fn against repositories
// bound to one transaction which is committed when fn returns nil and
// rolled back otherwise.
type UnitOfWork interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(r Repos) error) error
}

type storeUnit struct {
	store *repository.Store
}

// NewUnitOfWork adapts a repository.Store to UnitOfWork.
func NewUnitOfWork(store *repository.Store) UnitOfWork {
	return storeUnit{store: store}
}

func (u storeUnit) Repos() Repos {
	return Repos{Venues: u.store.Venues, Artists: u.store.Artists, Shows: u.store.Shows}
}

func (u storeUnit) InTx(ctx context.Context, fn func(r Repos) error) error {
	return u.store.InTx(ctx, func(tx *repository.Tx) error {
		return fn(Repos{Venues: tx.Venues, Artists: tx.Artists, Shows: tx.Shows})
	})
}
