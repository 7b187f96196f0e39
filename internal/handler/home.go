package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Home renders the landing page with the latest venues and artists.
func (h *Handler) Home(c echo.Context) error {
    home, err := h.Catalog.Recent(c.Request().Context())
    if err != nil {
        return err
    }
    p := h.page(c, "")
    p.Data = home
    return c.Render(http.StatusOK, "pages/home.html", p)
}
