// Package queue defines the domain events exchanged over the message broker
// together with the publisher used by the web server and the consumer run
// by cmd/worker.
package queue

import "time"

// EventsQueue is the durable queue every booking event is routed to.
const EventsQueue = "booking.events"

// Event types.  The value is carried in Event.Type.
const (
    VenueCreated  = "venue.created"
    VenueUpdated  = "venue.updated"
    VenueDeleted  = "venue.deleted"
    ArtistCreated = "artist.created"
    ArtistUpdated = "artist.updated"
    ShowListed    = "show.listed"
)

// Event is published after a write has been committed.  It carries enough
// information for downstream consumers to log or notify without querying
// the primary database.
type Event struct {
    Type       string `json:"type"`
    EntityID   uint64 `json:"entity_id"`
    Name       string `json:"name,omitempty"`
    VenueID    uint64 `json:"venue_id,omitempty"`
    ArtistID   uint64 `json:"artist_id,omitempty"`
    StartTime  string `json:"start_time,omitempty"`
    OccurredAt string `json:"occurred_at"`
}

// NewEvent stamps an event of type typ for entity id at the given time.
func NewEvent(typ string, id uint64, name string, at time.Time) Event {
    return Event{Type: typ, EntityID: id, Name: name, OccurredAt: at.UTC().Format(time.RFC3339)}
}
