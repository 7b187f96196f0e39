package handler

import (
    "errors"
    "fmt"
    "log"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/flash"
    "github.com/iliyamo/venue-booking/internal/form"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/service"
)

// ListVenues renders every venue grouped by city and state.
func (h *Handler) ListVenues(c echo.Context) error {
    areas, err := h.Catalog.VenueAreas(c.Request().Context())
    if err != nil {
        return err
    }
    p := h.page(c, "Venues")
    p.Data = areas
    return c.Render(http.StatusOK, "pages/venues.html", p)
}

// SearchVenues renders the venues whose name contains search_term.
func (h *Handler) SearchVenues(c echo.Context) error {
    res, err := h.Catalog.SearchVenues(c.Request().Context(), c.FormValue("search_term"))
    if err != nil {
        return err
    }
    p := h.page(c, "Venue Search")
    p.Data = res
    return c.Render(http.StatusOK, "pages/search_venues.html", p)
}

// ShowVenue renders one venue with its past and upcoming shows.
func (h *Handler) ShowVenue(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    d, err := h.Catalog.VenueDetail(c.Request().Context(), id)
    if err != nil {
        return fail(err)
    }
    p := h.page(c, d.Name)
    p.Data = d
    return c.Render(http.StatusOK, "pages/show_venue.html", p)
}

// NewVenueForm renders the empty venue form.
func (h *Handler) NewVenueForm(c echo.Context) error {
    p := h.page(c, "New Venue")
    p.Form = form.VenueInput{}
    return c.Render(http.StatusOK, "forms/new_venue.html", p)
}

// CreateVenue lists a new venue and returns to the home page.
func (h *Handler) CreateVenue(c echo.Context) error {
    raw, err := c.FormParams()
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
    }
    in := form.VenueFromValues(raw)
    v, err := h.Catalog.CreateVenue(c.Request().Context(), in)
    if err != nil {
        return h.rejected(c, err, submission{
            template: "forms/new_venue.html",
            title:    "New Venue",
            failure:  fmt.Sprintf("An error occurred. Venue %s could not be listed.", in.Name),
            input:    in,
        })
    }
    h.flash(c, flash.Success, fmt.Sprintf("Venue %s was successfully listed!", v.Name))
    return redirect(c, "/")
}

// EditVenueForm renders the venue form prefilled with the stored values.
func (h *Handler) EditVenueForm(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    v, err := h.Catalog.Venue(c.Request().Context(), id)
    if err != nil {
        return fail(err)
    }
    p := h.page(c, "Edit "+v.Name)
    p.Form = form.VenueFromModel(*v)
    p.Data = v
    return c.Render(http.StatusOK, "forms/edit_venue.html", p)
}

// UpdateVenue overwrites a venue and returns to its page.
func (h *Handler) UpdateVenue(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    raw, err := c.FormParams()
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
    }
    in := form.VenueFromValues(raw)
    v, err := h.Catalog.UpdateVenue(c.Request().Context(), id, in)
    if err != nil {
        return h.rejected(c, err, submission{
            template: "forms/edit_venue.html",
            title:    "Edit Venue",
            failure:  fmt.Sprintf("An error occurred. Venue %s could not be edited.", in.Name),
            input:    in,
            data:     model.Venue{ID: id, Name: in.Name},
        })
    }
    h.flash(c, flash.Success, fmt.Sprintf("Venue %s was successfully edited!", v.Name))
    return redirect(c, fmt.Sprintf("/venues/%d", id))
}

// DeleteVenue removes a venue that has no shows.  It answers both a real
// DELETE and a form post overridden with _method=DELETE.
func (h *Handler) DeleteVenue(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    v, err := h.Catalog.DeleteVenue(c.Request().Context(), id)
    name := strconv.FormatUint(id, 10)
    if v != nil {
        name = v.Name
    }
    back := "/venues/" + strconv.FormatUint(id, 10)
    switch {
    case err == nil:
        h.flash(c, flash.Success, fmt.Sprintf("Venue %s was successfully deleted!", name))
        return redirect(c, "/")
    case errors.Is(err, service.ErrHasShows):
        h.flash(c, flash.Error, fmt.Sprintf("Venue %s cannot be deleted while it has shows listed.", name))
        return redirect(c, back)
    case service.IsWrite(err):
        log.Printf("handler: %v", err)
        h.flash(c, flash.Error, fmt.Sprintf("An error occurred. Venue %s could not be deleted.", name))
        return redirect(c, back)
    }
    return fail(err)
}
