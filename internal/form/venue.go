package form

import (
	"net/url"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueSpec describes the new/edit venue form.
var VenueSpec = Spec{
	Name: "venue",
	Fields: []Field{
		{Name: "name", Label: "Name", Required: true, Max: 255},
		{Name: "city", Label: "City", Required: true, Max: 120},
		{Name: "state", Label: "State", Required: true, Choices: States},
		{Name: "address", Label: "Address", Required: true, Max: 120},
		{Name: "phone", Label: "Phone", Pattern: phonePattern},
		{Name: "image_link", Label: "Image Link", URL: true, Max: 500},
		{Name: "genres", Label: "Genres", Kind: Multi, Required: true, Choices: Genres},
		{Name: "facebook_link", Label: "Facebook Link", URL: true, Max: 120},
		{Name: "website_link", Label: "Website Link", URL: true, Max: 120},
		{Name: "seeking_talent", Label: "Looking for Talent", Kind: Checkbox},
		{Name: "seeking_description", Label: "Seeking Description", Max: DescriptionMax},
	},
}

// VenueInput is a submitted (or prefilled) venue form.
type VenueInput struct {
	Name               string
	City               string
	State              string
	Address            string
	Phone              string
	ImageLink          string
	Genres             []string
	FacebookLink       string
	WebsiteLink        string
	SeekingTalent      bool
	SeekingDescription string
}

// VenueFromValues reads a venue submission.  It never fails; call Validate.
func VenueFromValues(raw url.Values) VenueInput {
	v := VenueSpec.Read(raw)
	return VenueInput{
		Name:               v.Get("name"),
		City:               v.Get("city"),
		State:              v.Get("state"),
		Address:            v.Get("address"),
		Phone:              v.Get("phone"),
		ImageLink:          v.Get("image_link"),
		Genres:             v.List("genres"),
		FacebookLink:       v.Get("facebook_link"),
		WebsiteLink:        v.Get("website_link"),
		SeekingTalent:      v.Bool("seeking_talent"),
		SeekingDescription: v.Get("seeking_description"),
	}
}

// VenueFromModel prefills the edit form from a stored venue.
func VenueFromModel(m model.Venue) VenueInput {
	return VenueInput{
		Name:               m.Name,
		City:               m.City,
		State:              m.State,
		Address:            m.Address,
		Phone:              m.Phone,
		ImageLink:          m.ImageLink,
		Genres:             append([]string(nil), m.Genres...),
		FacebookLink:       m.FacebookLink,
		WebsiteLink:        m.Website,
		SeekingTalent:      m.SeekingTalent,
		SeekingDescription: m.SeekingDescription,
	}
}

func (in VenueInput) values() Values {
	return Values{
		single: map[string]string{
			"name":                in.Name,
			"city":                in.City,
			"state":               in.State,
			"address":             in.Address,
			"phone":               in.Phone,
			"image_link":          in.ImageLink,
			"facebook_link":       in.FacebookLink,
			"website_link":        in.WebsiteLink,
			"seeking_description": in.SeekingDescription,
		},
		multi:  map[string][]string{"genres": in.Genres},
		checks: map[string]bool{"seeking_talent": in.SeekingTalent},
	}
}

// Validate checks the input against VenueSpec.
func (in VenueInput) Validate() Errors {
	return VenueSpec.Validate(in.values())
}

// Apply overwrites every mutable field of v with the input.
func (in VenueInput) Apply(v *model.Venue) {
	v.Name = in.Name
	v.City = in.City
	v.State = in.State
	v.Address = in.Address
	v.Phone = in.Phone
	v.ImageLink = in.ImageLink
	v.Genres = Unique(in.Genres)
	v.FacebookLink = in.FacebookLink
	v.Website = in.WebsiteLink
	v.SeekingTalent = in.SeekingTalent
	v.SeekingDescription = in.SeekingDescription
}
