package router // package router defines how HTTP routes are registered for the site

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/venue-booking/internal/handler" // import the handlers that render pages
)

// RegisterRoutes registers the health check and every page of the site on
// the provided Echo instance.  Static segments such as /venues/create win
// over /venues/:id regardless of registration order.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	// Map GET /healthz to the Health handler for load balancers.
	e.GET("/healthz", h.Health)

	// Landing page with the latest listings.
	e.GET("/", h.Home)

	// Venues: listing, search, detail, create, edit and delete.
	e.GET("/venues", h.ListVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/create", h.NewVenueForm)
	e.POST("/venues/create", h.CreateVenue)
	e.GET("/venues/:id", h.ShowVenue)
	// Browsers cannot send DELETE from a form; the MethodOverride
	// middleware rewrites POST with _method=DELETE before routing.
	e.DELETE("/venues/:id", h.DeleteVenue)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.UpdateVenue)

	// Artists mirror venues, without delete.
	e.GET("/artists", h.ListArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/create", h.NewArtistForm)
	e.POST("/artists/create", h.CreateArtist)
	e.GET("/artists/:id", h.ShowArtist)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.UpdateArtist)

	// Shows can only be listed and created.
	e.GET("/shows", h.ListShows)
	e.GET("/shows/create", h.NewShowForm)
	e.POST("/shows/create", h.CreateShow)
}
