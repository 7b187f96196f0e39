package model

import (
    "strings"
    "time"
)

// Show is a scheduled performance joining one artist and one venue.  It
// has no lifecycle of its own: shows are created and listed, never edited.
//
// Fields:
//  ID        – primary key identifier.
//  ArtistID  – performing artist (must exist).
//  VenueID   – hosting venue (must exist).
//  StartTime – when the show begins, stored in UTC.
//  CreatedAt – creation timestamp.
type Show struct {
    ID        uint64    // shows.id
    ArtistID  uint64    // shows.artist_id
    VenueID   uint64    // shows.venue_id
    StartTime time.Time // shows.start_time
    CreatedAt time.Time // shows.created_at
}

// IsUpcoming reports whether a show starting at start is upcoming relative
// to now.  A show starting exactly at now is past.
func IsUpcoming(start, now time.Time) bool {
    return start.After(now)
}

// When selects shows by their position relative to the current time.
type When string

const (
    WhenAll      When = "all"
    WhenUpcoming When = "upcoming"
    WhenPast     When = "past"
)

// ParseWhen normalizes a query value; anything unknown selects all shows.
func ParseWhen(s string) When {
    switch When(strings.ToLower(strings.TrimSpace(s))) {
    case WhenUpcoming:
        return WhenUpcoming
    case WhenPast:
        return WhenPast
    default:
        return WhenAll
    }
}

// Matches reports whether a show starting at start falls in w.
func (w When) Matches(start, now time.Time) bool {
    switch w {
    case WhenUpcoming:
        return IsUpcoming(start, now)
    case WhenPast:
        return !IsUpcoming(start, now)
    default:
        return true
    }
}
