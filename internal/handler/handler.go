// Package handler exposes the HTTP handlers of the booking site.  Every
// handler renders a server side page or redirects; failures are mapped onto
// echo.HTTPError values and rendered by view.ErrorHandler.
package handler

import (
    "context"  // context types the database ping
    "errors"   // errors is used to match service sentinels
    "log"      // log reports best-effort failures (flash store)
    "net/http" // net/http provides status codes
    "strconv"  // strconv parses path ids

    "github.com/labstack/echo/v4"                   // echo defines request context types
    echomw "github.com/labstack/echo/v4/middleware" // echomw exposes the CSRF context key

    "github.com/iliyamo/venue-booking/internal/flash"   // flash carries one-shot messages
    "github.com/iliyamo/venue-booking/internal/service" // service implements the catalog
    "github.com/iliyamo/venue-booking/internal/view"    // view defines the page data
)

// Handler bundles the catalog service and the flash store used by every
// page.
type Handler struct {
    Catalog *service.Catalog                // Catalog answers queries and performs writes
    Flash   flash.Store                     // Flash persists messages across redirects
    Ping    func(ctx context.Context) error // Ping checks the database for /healthz; optional
}

// NewHandler constructs a Handler and panics if any dependency is nil.
func NewHandler(catalog *service.Catalog, store flash.Store) *Handler {
    if catalog == nil || store == nil { // check for nil dependencies
        panic("nil dependency passed to NewHandler") // panic when a dependency is missing
    }
    return &Handler{Catalog: catalog, Flash: store}
}

// page builds the common page data: title, pending flashes and the CSRF
// token.  It must be called after every flash.Now of the request.
func (h *Handler) page(c echo.Context, title string) view.Page {
    token, _ := c.Get(echomw.DefaultCSRFConfig.ContextKey).(string) // empty when CSRF is disabled
    return view.Page{
        Title:   title,
        Flashes: flash.Messages(c, h.Flash), // stored messages plus the ones queued for now
        CSRF:    token,
    }
}

// flash stores a message for the next request.  A failing store is logged
// and otherwise ignored; the write it reports on has already happened.
func (h *Handler) flash(c echo.Context, kind, text string) {
    if err := h.Flash.Add(c, flash.Message{Kind: kind, Text: text}); err != nil {
        log.Printf("flash: add failed: %v", err)
    }
}

// redirect answers a form submission with 303 See Other so the browser
// follows up with a GET.
func redirect(c echo.Context, to string) error {
    return c.Redirect(http.StatusSeeOther, to)
}

// parseID reads the :id path parameter.  A malformed id cannot name a
// record, so it is reported as 404.
func parseID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64) // parse base-10 unsigned id
    if err != nil || id == 0 {
        return 0, echo.NewHTTPError(http.StatusNotFound)
    }
    return id, nil
}

// fail maps service errors that have no page of their own: unknown records
// become 404, everything else a 500.
func fail(err error) error {
    if errors.Is(err, service.ErrNotFound) {
        return echo.NewHTTPError(http.StatusNotFound).SetInternal(err)
    }
    return err
}

// submission describes how to answer a rejected form post.
type submission struct {
    template string // form template to re-render
    title    string // page title
    failure  string // flash text for a rolled back write
    input    any    // attempted input, re-rendered unchanged
    data     any    // page specific data, e.g. the edited record
}

// rejected answers a failed create or edit.  Validation failures re-render
// the form with field messages (422), rolled back writes re-render it with
// a generic message (500); anything else goes to the error handler.
func (h *Handler) rejected(c echo.Context, err error, s submission) error {
    code := http.StatusUnprocessableEntity
    var p view.Page
    if ve, ok := service.IsValidation(err); ok {
        for _, fe := range ve.Errors {
            flash.Now(c, flash.Message{Kind: flash.Error, Text: fe.Label + " " + fe.Message})
        }
        p = h.page(c, s.title)
        p.Errors = ve.Errors
    } else if service.IsWrite(err) {
        log.Printf("handler: %v", err)
        flash.Now(c, flash.Message{Kind: flash.Error, Text: s.failure})
        code = http.StatusInternalServerError
        p = h.page(c, s.title)
    } else {
        return fail(err)
    }
    p.Form, p.Data = s.input, s.data
    return c.Render(code, s.template, p)
}
