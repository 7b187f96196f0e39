// Package servicetest provides an in-memory service.UnitOfWork for tests.
// It mirrors the ordering and error behavior of the MySQL repositories
// closely enough for service and handler tests, and is not safe for
// concurrent use.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/service"
)

type state struct {
	venues  map[uint64]model.Venue
	artists map[uint64]model.Artist
	shows   map[uint64]model.Show
	lastID  uint64
}

func (s *state) clone() *state {
	c := &state{
		venues:  make(map[uint64]model.Venue, len(s.venues)),
		artists: make(map[uint64]model.Artist, len(s.artists)),
		shows:   make(map[uint64]model.Show, len(s.shows)),
		lastID:  s.lastID,
	}
	for id, v := range s.venues {
		v.Genres = append([]string(nil), v.Genres...)
		c.venues[id] = v
	}
	for id, a := range s.artists {
		a.Genres = append([]string(nil), a.Genres...)
		c.artists[id] = a
	}
	for id, sh := range s.shows {
		c.shows[id] = sh
	}
	return c
}

// Memory is an in-memory store.  Writes in InTx are applied to a copy that
// replaces the committed state only when the callback succeeds.
type Memory struct {
	// Writes counts every Create, Update and Delete call, committed or not.
	Writes int
	// Commits counts successful transactions.
	Commits int
	// FailWrites, when set, is returned by every Create, Update and Delete.
	FailWrites error
	// FailCommit, when set, is returned by InTx after the callback
	// succeeded; the changes are discarded.
	FailCommit error

	st *state
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{st: &state{
		venues:  map[uint64]model.Venue{},
		artists: map[uint64]model.Artist{},
		shows:   map[uint64]model.Show{},
	}}
}

var _ service.UnitOfWork = (*Memory)(nil)

// Repos returns repositories reading the committed state.
func (m *Memory) Repos() service.Repos {
	return m.repos(m.st)
}

func (m *Memory) repos(st *state) service.Repos {
	return service.Repos{
		Venues:  &venues{m: m, st: st},
		Artists: &artists{m: m, st: st},
		Shows:   &shows{m: m, st: st},
	}
}

// InTx runs fn against a copy of the state and commits it on success.
func (m *Memory) InTx(ctx context.Context, fn func(r service.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	work := m.st.clone()
	if err := fn(m.repos(work)); err != nil {
		return err
	}
	if m.FailCommit != nil {
		return m.FailCommit
	}
	m.st = work
	m.Commits++
	return nil
}

// AddVenue stores v directly, bypassing Writes, and returns its id.
func (m *Memory) AddVenue(v model.Venue) uint64 {
	m.st.lastID++
	v.ID = m.st.lastID
	v.Genres = sortedGenres(v.Genres)
	m.st.venues[v.ID] = v
	return v.ID
}

// AddArtist stores a directly and returns its id.
func (m *Memory) AddArtist(a model.Artist) uint64 {
	m.st.lastID++
	a.ID = m.st.lastID
	a.Genres = sortedGenres(a.Genres)
	m.st.artists[a.ID] = a
	return a.ID
}

// AddShow stores a show without checking its references.
func (m *Memory) AddShow(artistID, venueID uint64, start time.Time) uint64 {
	m.st.lastID++
	m.st.shows[m.st.lastID] = model.Show{ID: m.st.lastID, ArtistID: artistID, VenueID: venueID, StartTime: start}
	return m.st.lastID
}

// VenueCount and the other counters report committed rows.
func (m *Memory) VenueCount() int  { return len(m.st.venues) }
func (m *Memory) ArtistCount() int { return len(m.st.artists) }
func (m *Memory) ShowCount() int   { return len(m.st.shows) }

func (m *Memory) write() error {
	m.Writes++
	return m.FailWrites
}

func sortedGenres(in []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, g := range in {
		if g != "" && !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

func contains(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

func (st *state) upcoming(match func(model.Show) bool, now time.Time) int {
	n := 0
	for _, s := range st.shows {
		if match(s) && s.StartTime.After(now) {
			n++
		}
	}
	return n
}

func (st *state) listings(match func(model.Show) bool) ([]model.ShowListing, error) {
	out := []model.ShowListing{}
	for _, s := range st.shows {
		if !match(s) {
			continue
		}
		v, ok := st.venues[s.VenueID]
		if !ok {
			return nil, repository.ErrVenueNotFound
		}
		a, ok := st.artists[s.ArtistID]
		if !ok {
			return nil, repository.ErrArtistNotFound
		}
		out = append(out, model.ShowListing{
			ID: s.ID, StartTime: s.StartTime,
			VenueID: v.ID, VenueName: v.Name, VenueImageLink: v.ImageLink,
			ArtistID: a.ID, ArtistName: a.Name, ArtistImageLink: a.ImageLink,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type venues struct {
	m  *Memory
	st *state
}

func (r *venues) Create(_ context.Context, v *model.Venue) error {
	if err := r.m.write(); err != nil {
		return err
	}
	r.st.lastID++
	v.ID = r.st.lastID
	stored := *v
	stored.Genres = sortedGenres(v.Genres)
	r.st.venues[v.ID] = stored
	return nil
}

func (r *venues) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	v, ok := r.st.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	v.Genres = append([]string{}, v.Genres...)
	return &v, nil
}

func (r *venues) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := r.st.venues[id]
	return ok, nil
}

func (r *venues) Update(_ context.Context, v *model.Venue) error {
	if err := r.m.write(); err != nil {
		return err
	}
	if _, ok := r.st.venues[v.ID]; !ok {
		return repository.ErrVenueNotFound
	}
	stored := *v
	stored.Genres = sortedGenres(v.Genres)
	r.st.venues[v.ID] = stored
	return nil
}

func (r *venues) Delete(_ context.Context, id uint64) error {
	if err := r.m.write(); err != nil {
		return err
	}
	if _, ok := r.st.venues[id]; !ok {
		return repository.ErrVenueNotFound
	}
	for _, s := range r.st.shows {
		if s.VenueID == id {
			return repository.ErrConflict
		}
	}
	delete(r.st.venues, id)
	return nil
}

func (r *venues) summaries(keep func(model.Venue) bool, now time.Time) []model.VenueSummary {
	out := []model.VenueSummary{}
	for _, v := range r.st.venues {
		if !keep(v) {
			continue
		}
		id := v.ID
		out = append(out, model.VenueSummary{
			ID: v.ID, Name: v.Name, City: v.City, State: v.State,
			NumUpcomingShows: r.st.upcoming(func(s model.Show) bool { return s.VenueID == id }, now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *venues) ListSummaries(_ context.Context, now time.Time) ([]model.VenueSummary, error) {
	out := r.summaries(func(model.Venue) bool { return true }, now)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].City < out[j].City
	})
	return out, nil
}

func (r *venues) Search(_ context.Context, term string, now time.Time) ([]model.VenueSummary, error) {
	return r.summaries(func(v model.Venue) bool { return contains(v.Name, term) }, now), nil
}

func (r *venues) Recent(_ context.Context, limit int) ([]model.VenueSummary, error) {
	out := r.summaries(func(model.Venue) bool { return true }, time.Time{})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	for i := range out {
		out[i].NumUpcomingShows = 0
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type artists struct {
	m  *Memory
	st *state
}

func (r *artists) Create(_ context.Context, a *model.Artist) error {
	if err := r.m.write(); err != nil {
		return err
	}
	r.st.lastID++
	a.ID = r.st.lastID
	stored := *a
	stored.Genres = sortedGenres(a.Genres)
	r.st.artists[a.ID] = stored
	return nil
}

func (r *artists) GetByID(_ context.Context, id uint64) (*model.Artist, error) {
	a, ok := r.st.artists[id]
	if !ok {
		return nil, repository.ErrArtistNotFound
	}
	a.Genres = append([]string{}, a.Genres...)
	return &a, nil
}

func (r *artists) Exists(_ context.Context, id uint64) (bool, error) {
	_, ok := r.st.artists[id]
	return ok, nil
}

func (r *artists) Update(_ context.Context, a *model.Artist) error {
	if err := r.m.write(); err != nil {
		return err
	}
	if _, ok := r.st.artists[a.ID]; !ok {
		return repository.ErrArtistNotFound
	}
	stored := *a
	stored.Genres = sortedGenres(a.Genres)
	r.st.artists[a.ID] = stored
	return nil
}

func (r *artists) summaries(keep func(model.Artist) bool, now time.Time) []model.ArtistSummary {
	out := []model.ArtistSummary{}
	for _, a := range r.st.artists {
		if !keep(a) {
			continue
		}
		id := a.ID
		out = append(out, model.ArtistSummary{
			ID: a.ID, Name: a.Name,
			NumUpcomingShows: r.st.upcoming(func(s model.Show) bool { return s.ArtistID == id }, now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *artists) List(_ context.Context) ([]model.ArtistSummary, error) {
	out := r.summaries(func(model.Artist) bool { return true }, time.Time{})
	for i := range out {
		out[i].NumUpcomingShows = 0
	}
	return out, nil
}

func (r *artists) Recent(ctx context.Context, limit int) ([]model.ArtistSummary, error) {
	out, _ := r.List(ctx)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *artists) Search(_ context.Context, term string, now time.Time) ([]model.ArtistSummary, error) {
	return r.summaries(func(a model.Artist) bool { return contains(a.Name, term) }, now), nil
}

type shows struct {
	m  *Memory
	st *state
}

func (r *shows) Create(_ context.Context, s *model.Show) error {
	if err := r.m.write(); err != nil {
		return err
	}
	if _, ok := r.st.artists[s.ArtistID]; !ok {
		return repository.ErrReferenceMissing
	}
	if _, ok := r.st.venues[s.VenueID]; !ok {
		return repository.ErrReferenceMissing
	}
	r.st.lastID++
	s.ID = r.st.lastID
	s.StartTime = s.StartTime.UTC()
	r.st.shows[s.ID] = *s
	return nil
}

func (r *shows) List(_ context.Context, when model.When, now time.Time) ([]model.ShowListing, error) {
	return r.st.listings(func(s model.Show) bool { return when.Matches(s.StartTime, now) })
}

func (r *shows) ListByVenue(_ context.Context, venueID uint64) ([]model.ShowListing, error) {
	return r.st.listings(func(s model.Show) bool { return s.VenueID == venueID })
}

func (r *shows) ListByArtist(_ context.Context, artistID uint64) ([]model.ShowListing, error) {
	return r.st.listings(func(s model.Show) bool { return s.ArtistID == artistID })
}
