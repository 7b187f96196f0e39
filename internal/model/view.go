package model

import "time"

// VenueSummary is a venue row annotated with its upcoming show count.  It
// is used by the grouped listing, the search results and the home page.
type VenueSummary struct {
    ID               uint64
    Name             string
    City             string
    State            string
    NumUpcomingShows int
}

// ArtistSummary is the artist counterpart of VenueSummary.
type ArtistSummary struct {
    ID               uint64
    Name             string
    NumUpcomingShows int
}

// Area groups the venues located in one (city, state) pair.
type Area struct {
    City   string
    State  string
    Venues []VenueSummary
}

// ShowListing is a show joined with the names and images of its venue and
// artist.  Upcoming is derived at query time and never stored.
type ShowListing struct {
    ID              uint64
    VenueID         uint64
    VenueName       string
    VenueImageLink  string
    ArtistID        uint64
    ArtistName      string
    ArtistImageLink string
    StartTime       time.Time
    Upcoming        bool
}

// SearchResult carries the matches of a name search together with the
// submitted term.
type SearchResult[T any] struct {
    Term  string
    Count int
    Data  []T
}

// VenueDetail is the venue page: the record plus its shows partitioned
// into past and upcoming.
type VenueDetail struct {
    Venue
    PastShows          []ShowListing
    UpcomingShows      []ShowListing
    PastShowsCount     int
    UpcomingShowsCount int
}

// ArtistDetail is the artist page, see VenueDetail.
type ArtistDetail struct {
    Artist
    PastShows          []ShowListing
    UpcomingShows      []ShowListing
    PastShowsCount     int
    UpcomingShowsCount int
}

// Home lists the most recently listed venues and artists.
type Home struct {
    Venues  []VenueSummary
    Artists []ArtistSummary
}
