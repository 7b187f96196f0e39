package form

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking/internal/model"
)

func validVenueValues() url.Values {
	return url.Values{
		"name":                {"The Musical Hop"},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"address":             {"1015 Folsom Street"},
		"phone":               {"123-123-1234"},
		"image_link":          {"https://images.example.com/hop.jpg"},
		"genres":              {"Jazz", "Reggae", "Jazz", " "},
		"facebook_link":       {"https://www.facebook.com/TheMusicalHop"},
		"website_link":        {"https://www.themusicalhop.com"},
		"seeking_talent":      {"y"},
		"seeking_description": {"We are on the lookout for a local artist."},
	}
}

func TestVenueFromValues(t *testing.T) {
	in := VenueFromValues(validVenueValues())

	assert.Equal(t, "The Musical Hop", in.Name)
	assert.Equal(t, []string{"Jazz", "Reggae"}, in.Genres)
	assert.True(t, in.SeekingTalent)
	assert.Empty(t, in.Validate())

	raw := validVenueValues()
	delete(raw, "seeking_talent")
	assert.False(t, VenueFromValues(raw).SeekingTalent)
}

func TestVenueValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(url.Values)
		field  string
	}{
		{"missing name", func(v url.Values) { v.Del("name") }, "name"},
		{"blank name", func(v url.Values) { v.Set("name", "   ") }, "name"},
		{"missing address", func(v url.Values) { v.Del("address") }, "address"},
		{"unknown state", func(v url.Values) { v.Set("state", "XX") }, "state"},
		{"no genres", func(v url.Values) { v.Del("genres") }, "genres"},
		{"unknown genre", func(v url.Values) { v["genres"] = []string{"Jazz", "Polka"} }, "genres"},
		{"bad facebook link", func(v url.Values) { v.Set("facebook_link", "not a url") }, "facebook_link"},
		{"bad phone", func(v url.Values) { v.Set("phone", "call me") }, "phone"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := validVenueValues()
			tc.mutate(raw)
			errs := VenueFromValues(raw).Validate()
			require.Len(t, errs, 1, errs.Error())
			assert.True(t, errs.Has(tc.field))
			assert.NotEmpty(t, errs.Get(tc.field))
		})
	}
}

func TestVenueValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	raw := validVenueValues()
	for _, k := range []string{"phone", "image_link", "facebook_link", "website_link", "seeking_description"} {
		raw.Del(k)
	}
	assert.Empty(t, VenueFromValues(raw).Validate())
}

func TestVenueErrorsAreOrderedBySpec(t *testing.T) {
	errs := VenueFromValues(url.Values{}).Validate()

	var fields []string
	for _, fe := range errs {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"name", "city", "state", "address", "genres"}, fields)
	assert.Equal(t, "Name", errs[0].Label)
	assert.Equal(t, "is required", errs[0].Message)
}

func TestVenueApplyAndPrefill(t *testing.T) {
	in := VenueFromValues(validVenueValues())
	var v model.Venue
	in.Apply(&v)

	assert.Equal(t, "1015 Folsom Street", v.Address)
	assert.Equal(t, "https://www.themusicalhop.com", v.Website)
	assert.Equal(t, []string{"Jazz", "Reggae"}, v.Genres)
	assert.True(t, v.SeekingTalent)

	assert.Equal(t, in, VenueFromModel(v))
}

func TestArtistValidate(t *testing.T) {
	raw := url.Values{
		"name":          {"Guns N Petals"},
		"city":          {"San Francisco"},
		"state":         {"CA"},
		"genres":        {"Rock n Roll"},
		"seeking_venue": {"y"},
	}
	in := ArtistFromValues(raw)
	assert.Empty(t, in.Validate())
	assert.True(t, in.SeekingVenue)

	var a model.Artist
	in.Apply(&a)
	assert.Equal(t, in, ArtistFromModel(a))

	raw.Del("city")
	errs := ArtistFromValues(raw).Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "city", errs[0].Field)
}

func TestSeekingDescriptionIsBounded(t *testing.T) {
	fits := strings.Repeat("é", DescriptionMax)
	tooLong := fits + "x"

	raw := validVenueValues()
	raw.Set("seeking_description", fits)
	assert.Empty(t, VenueFromValues(raw).Validate())

	raw.Set("seeking_description", tooLong)
	errs := VenueFromValues(raw).Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "seeking_description", errs[0].Field)

	artist := url.Values{
		"name":                {"Guns N Petals"},
		"city":                {"San Francisco"},
		"state":               {"CA"},
		"genres":              {"Rock n Roll"},
		"seeking_description": {tooLong},
	}
	assert.True(t, ArtistFromValues(artist).Validate().Has("seeking_description"))
}

func TestShowInput(t *testing.T) {
	in := ShowFromValues(url.Values{
		"artist_id":  {"4"},
		"venue_id":   {" 1 "},
		"start_time": {"2035-04-01 20:00:00"},
	})
	require.Empty(t, in.Validate())

	s := in.Show()
	assert.Equal(t, uint64(4), s.ArtistID)
	assert.Equal(t, uint64(1), s.VenueID)
	assert.Equal(t, time.Date(2035, 4, 1, 20, 0, 0, 0, time.UTC), s.StartTime)
}

func TestShowValidate(t *testing.T) {
	errs := ShowFromValues(url.Values{}).Validate()
	assert.Len(t, errs, 3)

	errs = ShowFromValues(url.Values{
		"artist_id":  {"abc"},
		"venue_id":   {"0"},
		"start_time": {"tomorrow"},
	}).Validate()
	assert.True(t, errs.Has("artist_id"))
	assert.True(t, errs.Has("venue_id"))
	assert.True(t, errs.Has("start_time"))
}

func TestParseStartTime(t *testing.T) {
	want := time.Date(2035, 4, 1, 20, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2035-04-01 20:30:00",
		"2035-04-01 20:30",
		"2035-04-01T20:30",
		"2035-04-01T22:30:00+02:00",
	} {
		got, ok := ParseStartTime(s)
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
		assert.Equal(t, time.UTC, got.Location())
	}
	_, ok := ParseStartTime("01/04/2035")
	assert.False(t, ok)
}

func TestErrorsAdd(t *testing.T) {
	var errs Errors
	errs.Add(ShowSpec, "venue_id", "does not exist")
	errs.Add(ShowSpec, "other", "x")

	assert.Equal(t, "Venue ID", errs[0].Label)
	assert.Equal(t, "other", errs[1].Label)
	assert.Equal(t, "venue_id: does not exist; other: x", errs.Error())
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Unique([]string{" a", "b", "a", ""}))
	assert.Equal(t, []string{}, Unique(nil))
}
