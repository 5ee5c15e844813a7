package artists

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmaselli/galleria/pkg/ntime"
)

type Artist struct {
	Id          string
	FirstName   string
	LastName    string
	BirthYear   ntime.NYear
	DeathYear   ntime.NYear
	Nationality string
	Bio         string
	Created     time.Time
	Updated     time.Time
}

var yearRules = []validation.Rule{validation.Min(-3000), validation.Max(3000)}

type AddArtistData struct {
	FirstName   string
	LastName    string
	BirthYear   ntime.NYear
	DeathYear   ntime.NYear
	Nationality string
	Bio         string
}

func (data AddArtistData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.FirstName, validation.Length(0, 100)),
		validation.Field(&data.LastName, validation.Required.When(data.FirstName == ""), validation.Length(0, 100)),
		validation.Field(&data.Nationality, validation.Length(0, 60)),
		validation.Field(&data.Bio, validation.Length(0, 3000)),
	)
}

type UpdateArtistData struct {
	FirstName   string
	LastName    string
	BirthYear   ntime.NYear
	DeathYear   ntime.NYear
	Nationality string
	Bio         string
}

func (data UpdateArtistData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.FirstName, validation.Length(0, 100)),
		validation.Field(&data.LastName, validation.Required.When(data.FirstName == ""), validation.Length(0, 100)),
		validation.Field(&data.Nationality, validation.Length(0, 60)),
		validation.Field(&data.Bio, validation.Length(0, 3000)),
	)
}

// ResolveData carries the fields which identify an artist during donation review.
// Identity is the (first name, last name, birth year) triple; the remaining attributes only
// matter when the lookup misses and a new registry entry is needed.
type ResolveData struct {
	FirstName   string
	LastName    string
	BirthYear   ntime.NYear
	DeathYear   ntime.NYear
	Nationality string
	Bio         string
}

// Named reports whether the submission carries enough of a name to identify an artist at all;
// nameless submissions skip artist resolution entirely.
func (data ResolveData) Named() bool {
	return data.FirstName != "" || data.LastName != ""
}
