package form

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/iliyamo/venue-booking/internal/model"
)

// StartTimeLayouts are the accepted start_time formats, tried in order.
// Values without a zone are interpreted as UTC.
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

var idRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseUint(s, 10, 64); err != nil || n == 0 {
		return errors.New("must be a positive integer id")
	}
	return nil
})

var startTimeRule = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := ParseStartTime(s); !ok {
		return errors.New("must be a date and time like 2026-05-21 21:30:00")
	}
	return nil
})

// ShowSpec describes the new show form.
var ShowSpec = Spec{
	Name: "show",
	Fields: []Field{
		{Name: "artist_id", Label: "Artist ID", Required: true, Rules: []validation.Rule{idRule}},
		{Name: "venue_id", Label: "Venue ID", Required: true, Rules: []validation.Rule{idRule}},
		{Name: "start_time", Label: "Start Time", Required: true, Rules: []validation.Rule{startTimeRule}},
	},
}

// ShowInput is a submitted show form.  Values are kept as typed so the
// form can be re-rendered unchanged.
type ShowInput struct {
	ArtistID  string
	VenueID   string
	StartTime string
}

// ShowFromValues reads a show submission.
func ShowFromValues(raw url.Values) ShowInput {
	v := ShowSpec.Read(raw)
	return ShowInput{
		ArtistID:  v.Get("artist_id"),
		VenueID:   v.Get("venue_id"),
		StartTime: v.Get("start_time"),
	}
}

// Validate checks the input against ShowSpec.
func (in ShowInput) Validate() Errors {
	return ShowSpec.Validate(Values{single: map[string]string{
		"artist_id":  in.ArtistID,
		"venue_id":   in.VenueID,
		"start_time": in.StartTime,
	}})
}

// Show converts a validated input into a show record.
func (in ShowInput) Show() model.Show {
	artistID, _ := strconv.ParseUint(in.ArtistID, 10, 64)
	venueID, _ := strconv.ParseUint(in.VenueID, 10, 64)
	start, _ := ParseStartTime(in.StartTime)
	return model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}
}

// ParseStartTime parses s using StartTimeLayouts and returns it in UTC.
func ParseStartTime(s string) (time.Time, bool) {
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
