package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/flash"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/router"
	"github.com/iliyamo/venue-booking/internal/service"
	"github.com/iliyamo/venue-booking/internal/service/servicetest"
	"github.com/iliyamo/venue-booking/internal/view"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newServer(t *testing.T, m *servicetest.Memory) *echo.Echo {
	t.Helper()
	renderer, err := view.New()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = view.ErrorHandler(false)
	e.Pre(echomw.MethodOverrideWithConfig(echomw.MethodOverrideConfig{
		Getter: echomw.MethodFromForm("_method"),
	}))
	catalog := service.NewCatalog(m, service.WithClock(func() time.Time { return now }))
	router.RegisterRoutes(e, handler.NewHandler(catalog, flash.NewCookieStore("test-secret", false)))
	return e
}

func get(e *echo.Echo, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func post(e *echo.Echo, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// follow issues the GET a 303 asks for, carrying the cookies it set.
func follow(t *testing.T, e *echo.Echo, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return get(e, rec.Header().Get(echo.HeaderLocation), rec.Result().Cookies()...)
}

func seed(m *servicetest.Memory) (hop, petals uint64) {
	hop = m.AddVenue(model.Venue{
		Name: "The Musical Hop", City: "San Francisco", State: "CA", Address: "1015 Folsom Street",
		Genres: []string{"Jazz", "Reggae"}, SeekingTalent: true, SeekingDescription: "Looking for a local artist",
	})
	m.AddVenue(model.Venue{Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA", Address: "34 Whiskey Moore Ave"})
	m.AddVenue(model.Venue{Name: "The Dueling Pianos Bar", City: "New York", State: "NY", Address: "335 Delancey Street"})
	petals = m.AddArtist(model.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA", Genres: []string{"Rock n Roll"}})
	m.AddArtist(model.Artist{Name: "Matt Quevedo", City: "New York", State: "NY", Genres: []string{"Jazz"}})
	return hop, petals
}

func venueForm(name string) url.Values {
	return url.Values{
		"name":                {name},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"genres":              {"Jazz", "Reggae"},
		"seeking_talent":      {"y"},
		"seeking_description": {"Backing band wanted"},
	}
}

func TestHealth(t *testing.T) {
	e := newServer(t, servicetest.NewMemory())
	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHealthReportsDatabase(t *testing.T) {
	h := handler.NewHandler(service.NewCatalog(servicetest.NewMemory()), flash.NewCookieStore("s", false))
	e := echo.New()
	e.GET("/healthz", h.Health)

	h.Ping = func(context.Context) error { return errors.New("connection refused") }
	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", rec.Body.String())

	h.Ping = func(context.Context) error { return nil }
	assert.Equal(t, http.StatusOK, get(e, "/healthz").Code)
}

func TestHomeListsRecent(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	rec := get(newServer(t, m), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Dueling Pianos Bar")
	assert.Contains(t, rec.Body.String(), "Matt Quevedo")
}

func TestListVenuesGroupsByArea(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	rec := get(newServer(t, m), "/venues")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "San Francisco")
	assert.Contains(t, body, "New York")
	assert.Less(t, strings.Index(body, "San Francisco"), strings.Index(body, "New York"))
}

func TestSearchVenuesEchoesTerm(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	rec := post(newServer(t, m), "/venues/search", url.Values{"search_term": {"Hop"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Musical Hop")
	assert.NotContains(t, body, "The Dueling Pianos Bar")
	assert.Contains(t, body, `value="Hop"`)
	assert.Contains(t, body, ": 1</h3>")
}

func TestSearchArtists(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	rec := post(newServer(t, m), "/artists/search", url.Values{"search_term": {"a"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Guns N Petals")
	assert.Contains(t, rec.Body.String(), "Matt Quevedo")
}

func TestShowVenue(t *testing.T) {
	m := servicetest.NewMemory()
	hop, petals := seed(m)
	m.AddShow(petals, hop, now.Add(-48*time.Hour))
	m.AddShow(petals, hop, now.Add(48*time.Hour))
	m.AddShow(petals, hop, now.Add(96*time.Hour))

	rec := get(newServer(t, m), "/venues/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Musical Hop")
	assert.Contains(t, body, "2 Upcoming Shows")
	assert.Contains(t, body, "1 Past Show")
	assert.Contains(t, body, "Currently seeking talent")
}

func TestUnknownRecordsRender404(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	e := newServer(t, m)
	for _, target := range []string{"/venues/999", "/venues/abc", "/artists/999", "/venues/999/edit", "/artists/0/edit", "/nowhere"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Not Found", target)
	}
}

func TestCreateVenueRedirectsHomeWithFlash(t *testing.T) {
	m := servicetest.NewMemory()
	e := newServer(t, m)

	rec := post(e, "/venues/create", venueForm("The Blue Room"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 1, m.VenueCount())

	home := follow(t, e, rec)
	require.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "Venue The Blue Room was successfully listed!")
}

func TestCreateVenueInvalidRerendersForm(t *testing.T) {
	m := servicetest.NewMemory()
	values := venueForm("")
	values.Set("state", "ZZ")

	rec := post(newServer(t, m), "/venues/create", values)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Name is required")
	assert.Contains(t, body, `value="1015 Folsom Street"`)
	assert.Equal(t, 0, m.VenueCount())
	assert.Equal(t, 0, m.Writes)
}

func TestCreateVenueWriteFailure(t *testing.T) {
	m := servicetest.NewMemory()
	m.FailWrites = errors.New("disk full")

	rec := post(newServer(t, m), "/venues/create", venueForm("The Blue Room"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "An error occurred. Venue The Blue Room could not be listed.")
	assert.Contains(t, rec.Body.String(), `value="The Blue Room"`)
	assert.Equal(t, 0, m.VenueCount())
}

func TestEditVenueFormPrefills(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	rec := get(newServer(t, m), "/venues/1/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `action="/venues/1/edit"`)
	assert.Contains(t, body, `value="The Musical Hop"`)
	assert.Contains(t, body, `<option value="CA" selected>`)
	assert.Contains(t, body, `<option value="Jazz" selected>`)
	assert.Contains(t, body, `value="y" checked`)
}

func TestUpdateVenueRedirectsToDetail(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	e := newServer(t, m)

	rec := post(e, "/venues/1/edit", venueForm("The Musical Hop II"))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))

	page := follow(t, e, rec)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Venue The Musical Hop II was successfully edited!")
	assert.Contains(t, page.Body.String(), "<h1>The Musical Hop II</h1>")
}

func TestUpdateVenueInvalid(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	values := venueForm("The Musical Hop")
	values.Del("genres")

	rec := post(newServer(t, m), "/venues/1/edit", values)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Genres is required")
	assert.Equal(t, 0, m.Writes)
}

func TestUpdateVenueMissing(t *testing.T) {
	m := servicetest.NewMemory()
	rec := post(newServer(t, m), "/venues/42/edit", venueForm("Nowhere"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteVenueViaMethodOverride(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	e := newServer(t, m)

	rec := post(e, "/venues/2", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 2, m.VenueCount())

	home := follow(t, e, rec)
	assert.Contains(t, home.Body.String(), "was successfully deleted!")
	assert.Equal(t, http.StatusNotFound, get(e, "/venues/2").Code)
}

func TestDeleteVenueWithShowsIsBlocked(t *testing.T) {
	m := servicetest.NewMemory()
	hop, petals := seed(m)
	m.AddShow(petals, hop, now.Add(time.Hour))
	e := newServer(t, m)

	req := httptest.NewRequest(http.MethodDelete, "/venues/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, 3, m.VenueCount())

	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "Venue The Musical Hop cannot be deleted while it has shows listed.")
}

func TestDeleteVenueMissing(t *testing.T) {
	e := newServer(t, servicetest.NewMemory())
	req := httptest.NewRequest(http.MethodDelete, "/venues/7", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteVenueWriteFailure(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	m.FailWrites = errors.New("lock wait timeout")
	e := newServer(t, m)

	rec := post(e, "/venues/1", url.Values{"_method": {"DELETE"}})
	assert.Equal(t, "/venues/1", rec.Header().Get(echo.HeaderLocation))
	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "An error occurred. Venue The Musical Hop could not be deleted.")
	assert.Equal(t, 3, m.VenueCount())
}

func TestArtistPages(t *testing.T) {
	m := servicetest.NewMemory()
	hop, petals := seed(m)
	m.AddShow(petals, hop, now.Add(24*time.Hour))
	e := newServer(t, m)

	list := get(e, "/artists")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Guns N Petals")

	detail := get(e, "/artists/4")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "Guns N Petals")
	assert.Contains(t, detail.Body.String(), "The Musical Hop")

	form := get(e, "/artists/create")
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `name="seeking_venue"`)
}

func TestCreateAndEditArtist(t *testing.T) {
	m := servicetest.NewMemory()
	e := newServer(t, m)
	values := url.Values{
		"name":   {"The Wild Sax Band"},
		"city":   {"San Francisco"},
		"state":  {"CA"},
		"phone":  {"432-325-5432"},
		"genres": {"Jazz", "Classical"},
	}

	rec := post(e, "/artists/create", values)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Contains(t, follow(t, e, rec).Body.String(), "Artist The Wild Sax Band was successfully listed!")
	require.Equal(t, 1, m.ArtistCount())

	edit := get(e, "/artists/1/edit")
	require.Equal(t, http.StatusOK, edit.Code)
	assert.Contains(t, edit.Body.String(), `<option value="Classical" selected>`)

	values.Set("name", "The Wild Sax Quartet")
	values["seeking_venue"] = []string{"y"}
	rec = post(e, "/artists/1/edit", values)
	assert.Equal(t, "/artists/1", rec.Header().Get(echo.HeaderLocation))
	assert.Contains(t, follow(t, e, rec).Body.String(), "Artist The Wild Sax Quartet was successfully edited!")

	values.Set("phone", "call me maybe")
	rec = post(e, "/artists/1/edit", values)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateShow(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)
	e := newServer(t, m)

	rec := post(e, "/shows/create", url.Values{
		"artist_id":  {"4"},
		"venue_id":   {"1"},
		"start_time": {"2030-05-21 21:30:00"},
	})
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	assert.Contains(t, follow(t, e, rec).Body.String(), "Show was successfully listed!")
	assert.Equal(t, 1, m.ShowCount())
}

func TestCreateShowUnknownArtist(t *testing.T) {
	m := servicetest.NewMemory()
	seed(m)

	rec := post(newServer(t, m), "/shows/create", url.Values{
		"artist_id":  {"99"},
		"venue_id":   {"1"},
		"start_time": {"2030-05-21 21:30:00"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "does not match any artist")
	assert.Equal(t, 0, m.ShowCount())
}

func TestListShowsFilters(t *testing.T) {
	m := servicetest.NewMemory()
	hop, petals := seed(m)
	m.AddShow(petals, hop, now.Add(-time.Hour))
	m.AddShow(petals, hop, now.Add(time.Hour))
	e := newServer(t, m)

	all := get(e, "/shows")
	require.Equal(t, http.StatusOK, all.Code)
	assert.Equal(t, 2, strings.Count(all.Body.String(), `href="/venues/1"`))

	upcoming := get(e, "/shows?when=upcoming")
	require.Equal(t, http.StatusOK, upcoming.Code)
	assert.Equal(t, 1, strings.Count(upcoming.Body.String(), `href="/venues/1"`))
}

func TestNewFormsRender(t *testing.T) {
	e := newServer(t, servicetest.NewMemory())
	for _, target := range []string{"/venues/create", "/artists/create", "/shows/create"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestNewHandlerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { handler.NewHandler(nil, flash.NewCookieStore("s", false)) })
}
