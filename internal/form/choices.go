package form

import "regexp"

// States are the allowed values of the state field.
var States = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL", "IN", "IA", "KS",
	"KY", "LA", "ME", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "MD", "MA",
	"MI", "MN", "MS", "MO", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

// Genres are the allowed genre tags.
var Genres = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk", "Funk", "Hip-Hop",
	"Heavy Metal", "Instrumental", "Jazz", "Musical Theatre", "Pop", "Punk", "R&B", "Reggae",
	"Rock n Roll", "Soul", "Other",
}

// DescriptionMax bounds free-text descriptions stored in TEXT columns
// (65,535 bytes): 16000 runes of up to four bytes each always fit.
const DescriptionMax = 16000

var phonePattern = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
