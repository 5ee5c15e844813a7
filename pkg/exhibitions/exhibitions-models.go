package exhibitions

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmaselli/galleria/pkg/ntime"
)

type Exhibition struct {
	Id          string
	Title       string
	Description string
	Starts      ntime.NTime
	Ends        ntime.NTime
	Created     ntime.NTime
	Updated     ntime.NTime
}

type AddExhibitionData struct {
	Title       string
	Description string
	Starts      ntime.NTime
	Ends        ntime.NTime
}

func (data AddExhibitionData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&data.Description, validation.Length(0, 3000)),
	)
}

type UpdateExhibitionData = AddExhibitionData

type LinkArtworkData struct {
	ArtworkId string
}

func (data LinkArtworkData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ArtworkId, validation.Required, validation.Length(36, 36)),
	)
}

// ExhibitedArtwork is the read model served to the exhibition detail view.
type ExhibitedArtwork struct {
	Id           string
	Title        string
	CreationYear ntime.NYear
	Medium       string
	Added        ntime.NTime
}
