package form

import (
	"net/url"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ArtistSpec describes the new/edit artist form.
var ArtistSpec = Spec{
	Name: "artist",
	Fields: []Field{
		{Name: "name", Label: "Name", Required: true, Max: 255},
		{Name: "city", Label: "City", Required: true, Max: 120},
		{Name: "state", Label: "State", Required: true, Choices: States},
		{Name: "phone", Label: "Phone", Pattern: phonePattern},
		{Name: "image_link", Label: "Image Link", URL: true, Max: 500},
		{Name: "genres", Label: "Genres", Kind: Multi, Required: true, Choices: Genres},
		{Name: "facebook_link", Label: "Facebook Link", URL: true, Max: 120},
		{Name: "website_link", Label: "Website Link", URL: true, Max: 120},
		{Name: "seeking_venue", Label: "Looking for Venues", Kind: Checkbox},
		{Name: "seeking_description", Label: "Seeking Description", Max: DescriptionMax},
	},
}

// ArtistInput is a submitted (or prefilled) artist form.
type ArtistInput struct {
	Name               string
	City               string
	State              string
	Phone              string
	ImageLink          string
	Genres             []string
	FacebookLink       string
	WebsiteLink        string
	SeekingVenue       bool
	SeekingDescription string
}

// ArtistFromValues reads an artist submission.
func ArtistFromValues(raw url.Values) ArtistInput {
	v := ArtistSpec.Read(raw)
	return ArtistInput{
		Name:               v.Get("name"),
		City:               v.Get("city"),
		State:              v.Get("state"),
		Phone:              v.Get("phone"),
		ImageLink:          v.Get("image_link"),
		Genres:             v.List("genres"),
		FacebookLink:       v.Get("facebook_link"),
		WebsiteLink:        v.Get("website_link"),
		SeekingVenue:       v.Bool("seeking_venue"),
		SeekingDescription: v.Get("seeking_description"),
	}
}

// ArtistFromModel prefills the edit form from a stored artist.
func ArtistFromModel(m model.Artist) ArtistInput {
	return ArtistInput{
		Name:               m.Name,
		City:               m.City,
		State:              m.State,
		Phone:              m.Phone,
		ImageLink:          m.ImageLink,
		Genres:             append([]string(nil), m.Genres...),
		FacebookLink:       m.FacebookLink,
		WebsiteLink:        m.Website,
		SeekingVenue:       m.SeekingVenue,
		SeekingDescription: m.SeekingDescription,
	}
}

// Validate checks the input against ArtistSpec.
func (in ArtistInput) Validate() Errors {
	return ArtistSpec.Validate(Values{
		single: map[string]string{
			"name":                in.Name,
			"city":                in.City,
			"state":               in.State,
			"phone":               in.Phone,
			"image_link":          in.ImageLink,
			"facebook_link":       in.FacebookLink,
			"website_link":        in.WebsiteLink,
			"seeking_description": in.SeekingDescription,
		},
		multi:  map[string][]string{"genres": in.Genres},
		checks: map[string]bool{"seeking_venue": in.SeekingVenue},
	})
}

// Apply overwrites every mutable field of a with the input.
func (in ArtistInput) Apply(a *model.Artist) {
	a.Name = in.Name
	a.City = in.City
	a.State = in.State
	a.Phone = in.Phone
	a.ImageLink = in.ImageLink
	a.Genres = Unique(in.Genres)
	a.FacebookLink = in.FacebookLink
	a.Website = in.WebsiteLink
	a.SeekingVenue = in.SeekingVenue
	a.SeekingDescription = in.SeekingDescription
}
