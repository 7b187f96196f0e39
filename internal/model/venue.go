package model

import "time"

// Venue represents a location that can host shows.  A venue owns zero or
// more shows through shows.venue_id.  Genres is a set of tags persisted in
// the venue_genres table; order is not significant.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name, searched case-insensitively.
//  Address            – street address.
//  City, State        – location; venues are grouped by this pair.
//  Phone              – contact phone number.
//  FacebookLink       – optional Facebook page URL.
//  ImageLink          – optional image URL.
//  Website            – optional website URL.
//  Genres             – genre tags.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – free text shown when SeekingTalent is set.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Venue struct {
    ID                 uint64    // venues.id
    Name               string    // venues.name
    Address            string    // venues.address
    City               string    // venues.city
    State              string    // venues.state
    Phone              string    // venues.phone
    FacebookLink       string    // venues.facebook_link
    ImageLink          string    // venues.image_link
    Website            string    // venues.website
    Genres             []string  // venue_genres.genre
    SeekingTalent      bool      // venues.seeking_talent
    SeekingDescription string    // venues.seeking_description
    CreatedAt          time.Time // venues.created_at
    UpdatedAt          time.Time // venues.updated_at
}
