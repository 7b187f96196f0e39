package handler // declare the package name; contains HTTP handlers

import (
    "context"  // context bounds the database ping
    "net/http" // net/http provides status codes and response helpers
    "time"     // time sets the ping deadline

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is the health‑check endpoint used by load balancers.  It returns
// a plain text "ok" with 200, or "unavailable" with 503 when Ping is set
// and the database does not answer within two seconds.
func (h *Handler) Health(c echo.Context) error {
    if h.Ping != nil { // the database is only checked when a ping is wired
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second) // bound the ping
        defer cancel()
        if err := h.Ping(ctx); err != nil { // the database did not answer
            c.Logger().Warnf("health: database ping failed: %v", err)
            return c.String(http.StatusServiceUnavailable, "unavailable") // report 503 to the balancer
        }
    }
    return c.String(http.StatusOK, "ok") // write "ok" with a 200 OK status
}
