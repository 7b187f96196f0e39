package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/flash"
    "github.com/iliyamo/venue-booking/internal/form"
    "github.com/iliyamo/venue-booking/internal/model"
)

// ListArtists renders id and name of every artist.
func (h *Handler) ListArtists(c echo.Context) error {
    artists, err := h.Catalog.Artists(c.Request().Context())
    if err != nil {
        return err
    }
    p := h.page(c, "Artists")
    p.Data = artists
    return c.Render(http.StatusOK, "pages/artists.html", p)
}

// SearchArtists renders the artists whose name contains search_term.
func (h *Handler) SearchArtists(c echo.Context) error {
    res, err := h.Catalog.SearchArtists(c.Request().Context(), c.FormValue("search_term"))
    if err != nil {
        return err
    }
    p := h.page(c, "Artist Search")
    p.Data = res
    return c.Render(http.StatusOK, "pages/search_artists.html", p)
}

// ShowArtist renders one artist with its past and upcoming shows.
func (h *Handler) ShowArtist(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    d, err := h.Catalog.ArtistDetail(c.Request().Context(), id)
    if err != nil {
        return fail(err)
    }
    p := h.page(c, d.Name)
    p.Data = d
    return c.Render(http.StatusOK, "pages/show_artist.html", p)
}

// NewArtistForm renders the empty artist form.
func (h *Handler) NewArtistForm(c echo.Context) error {
    p := h.page(c, "New Artist")
    p.Form = form.ArtistInput{}
    return c.Render(http.StatusOK, "forms/new_artist.html", p)
}

// CreateArtist lists a new artist and returns to the home page.
func (h *Handler) CreateArtist(c echo.Context) error {
    raw, err := c.FormParams()
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
    }
    in := form.ArtistFromValues(raw)
    a, err := h.Catalog.CreateArtist(c.Request().Context(), in)
    if err != nil {
        return h.rejected(c, err, submission{
            template: "forms/new_artist.html",
            title:    "New Artist",
            failure:  fmt.Sprintf("An error occurred. Artist %s could not be listed.", in.Name),
            input:    in,
        })
    }
    h.flash(c, flash.Success, fmt.Sprintf("Artist %s was successfully listed!", a.Name))
    return redirect(c, "/")
}

// EditArtistForm renders the artist form prefilled with the stored values.
func (h *Handler) EditArtistForm(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    a, err := h.Catalog.Artist(c.Request().Context(), id)
    if err != nil {
        return fail(err)
    }
    p := h.page(c, "Edit "+a.Name)
    p.Form = form.ArtistFromModel(*a)
    p.Data = a
    return c.Render(http.StatusOK, "forms/edit_artist.html", p)
}

// UpdateArtist overwrites an artist and returns to its page.
func (h *Handler) UpdateArtist(c echo.Context) error {
    id, err := parseID(c)
    if err != nil {
        return err
    }
    raw, err := c.FormParams()
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
    }
    in := form.ArtistFromValues(raw)
    a, err := h.Catalog.UpdateArtist(c.Request().Context(), id, in)
    if err != nil {
        return h.rejected(c, err, submission{
            template: "forms/edit_artist.html",
            title:    "Edit Artist",
            failure:  fmt.Sprintf("An error occurred. Artist %s could not be edited.", in.Name),
            input:    in,
            data:     model.Artist{ID: id, Name: in.Name},
        })
    }
    h.flash(c, flash.Success, fmt.Sprintf("Artist %s was successfully edited!", a.Name))
    return redirect(c, fmt.Sprintf("/artists/%d", id))
}
