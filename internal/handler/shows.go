package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/venue-booking/internal/flash"
    "github.com/iliyamo/venue-booking/internal/form"
    "github.com/iliyamo/venue-booking/internal/model"
)

// ListShows renders shows ordered by start time.  The optional when query
// parameter selects upcoming, past or all (default) shows.
func (h *Handler) ListShows(c echo.Context) error {
    shows, err := h.Catalog.Shows(c.Request().Context(), model.ParseWhen(c.QueryParam("when")))
    if err != nil {
        return err
    }
    p := h.page(c, "Shows")
    p.Data = shows
    return c.Render(http.StatusOK, "pages/shows.html", p)
}

// NewShowForm renders the empty show form.
func (h *Handler) NewShowForm(c echo.Context) error {
    p := h.page(c, "New Show")
    p.Form = form.ShowInput{}
    return c.Render(http.StatusOK, "forms/new_show.html", p)
}

// CreateShow lists a show.  Every submission creates a new show.
func (h *Handler) CreateShow(c echo.Context) error {
    raw, err := c.FormParams()
    if err != nil {
        return echo.NewHTTPError(http.StatusBadRequest, "malformed form").SetInternal(err)
    }
    in := form.ShowFromValues(raw)
    if _, err := h.Catalog.CreateShow(c.Request().Context(), in); err != nil {
        return h.rejected(c, err, submission{
            template: "forms/new_show.html",
            title:    "New Show",
            failure:  "An error occurred. Show could not be listed.",
            input:    in,
        })
    }
    h.flash(c, flash.Success, "Show was successfully listed!")
    return redirect(c, "/")
}
