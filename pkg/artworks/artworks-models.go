package artworks

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmaselli/galleria/pkg/ntime"
)

type Artwork struct {
	Id           string
	Title        string
	CreationYear ntime.NYear
	Height       *float64
	Width        *float64
	Depth        *float64
	Medium       string
	Description  string
	Owned        bool
	Location     *string
	Added        ntime.NTime
	Updated      ntime.NTime
}

type Creator struct {
	ArtistId  string
	FirstName string
	LastName  string
	Role      string
}

var dimensionRules = []validation.Rule{validation.Min(0.0), validation.Max(100000.0)}

type AddArtworkData struct {
	Title        string
	CreationYear ntime.NYear
	Height       *float64
	Width        *float64
	Depth        *float64
	Medium       string
	Description  string
	Location     *string
}

func (data AddArtworkData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&data.Height, dimensionRules...),
		validation.Field(&data.Width, dimensionRules...),
		validation.Field(&data.Depth, dimensionRules...),
		validation.Field(&data.Medium, validation.Length(0, 100)),
		validation.Field(&data.Description, validation.Length(0, 3000)),
	)
}

type UpdateArtworkData = AddArtworkData

// CompletionData backfills a placeholder artwork once a donation is accepted; the piece is
// forced into the owned, active state regardless of its previous flags.
type CompletionData struct {
	Title        string
	CreationYear ntime.NYear
	Height       *float64
	Width        *float64
	Depth        *float64
	Medium       string
	Description  string
}

type LinkCreatorData struct {
	ArtistId string
	Role     string
}

func (data LinkCreatorData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ArtistId, validation.Required, validation.Length(36, 36)),
		validation.Field(&data.Role, validation.Length(0, 50)),
	)
}

type AddLocationData struct {
	Name        string
	Description string
}

func (data AddLocationData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&data.Description, validation.Length(0, 500)),
	)
}

type Location struct {
	Id          string
	Name        string
	Description string
}
