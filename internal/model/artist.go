package model

import "time"

// Artist represents a performer that can be booked into shows.  Like a
// venue it owns zero or more shows and carries a set of genre tags
// (artist_genres).
type Artist struct {
    ID                 uint64    // artists.id
    Name               string    // artists.name
    City               string    // artists.city
    State              string    // artists.state
    Phone              string    // artists.phone
    FacebookLink       string    // artists.facebook_link
    ImageLink          string    // artists.image_link
    Website            string    // artists.website
    Genres             []string  // artist_genres.genre
    SeekingVenue       bool      // artists.seeking_venue
    SeekingDescription string    // artists.seeking_description
    CreatedAt          time.Time // artists.created_at
    UpdatedAt          time.Time // artists.updated_at
}
