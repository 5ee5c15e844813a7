package acquisitions

import (
	"encoding/json"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/tmaselli/galleria/pkg/ntime"
)

// Acquisition methods, matching the codes used by the collection register.
const (
	MethodPurchase = 1
	MethodBequest  = 2
	MethodGift     = 3
	MethodTransfer = 4
)

// Review states for donations; directly entered acquisitions are born accepted.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type Acquisition struct {
	Id         string
	ArtworkId  *string
	Date       ntime.NTime
	Method     *int
	Price      *float64
	Source     string
	Status     string
	Submission *DonationSubmission `json:",omitempty"`
	Created    ntime.NTime
	Updated    ntime.NTime
}

// ArtistSubmission carries the donor's description of the artwork's creator.
type ArtistSubmission struct {
	FirstName   string
	LastName    string
	BirthYear   ntime.NYear
	DeathYear   ntime.NYear
	Nationality string
	Bio         string
}

func (a ArtistSubmission) Named() bool {
	return a.FirstName != "" || a.LastName != ""
}

/*
DonationSubmission is the canonical shape of a donor's self-submitted proposal, stored as a
JSON snapshot on the acquisition and displayed until a curator finalises the artwork record.

Donors reach the museum through several front-end revisions, which disagree on payload shapes:
artist fields arrive either nested under an "artist" object or flattened with an "artist_"
prefix, in snake_case or camelCase. UnmarshalJSON migrates every variant into this one schema
at the boundary, so the rest of the workflow never probes alternative key names.
*/
type DonationSubmission struct {
	ArtworkTitle string
	Description  string
	CreationYear ntime.NYear
	Height       *float64
	Width        *float64
	Depth        *float64
	Medium       string
	DonorName    string
	DonorEmail   string
	Artist       ArtistSubmission
}

func (data DonationSubmission) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.DonorName, validation.Required, validation.Length(2, 100)),
		validation.Field(&data.DonorEmail, is.Email),
		validation.Field(&data.ArtworkTitle, validation.Length(0, 200)),
		validation.Field(&data.Description, validation.Length(0, 3000)),
	)
}

func (data *DonationSubmission) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var err error
	if err = pick(fields, &data.ArtworkTitle, "ArtworkTitle", "artwork_title", "artworkTitle", "title"); err != nil {
		return err
	}
	if err = pick(fields, &data.Description, "Description", "description"); err != nil {
		return err
	}
	if err = pick(fields, &data.CreationYear, "CreationYear", "creation_year", "creationYear", "year"); err != nil {
		return err
	}
	if err = pick(fields, &data.Height, "Height", "height"); err != nil {
		return err
	}
	if err = pick(fields, &data.Width, "Width", "width"); err != nil {
		return err
	}
	if err = pick(fields, &data.Depth, "Depth", "depth"); err != nil {
		return err
	}
	if err = pick(fields, &data.Medium, "Medium", "medium"); err != nil {
		return err
	}
	if err = pick(fields, &data.DonorName, "DonorName", "donor_name", "donorName", "source_name", "sourceName"); err != nil {
		return err
	}
	if err = pick(fields, &data.DonorEmail, "DonorEmail", "donor_email", "donorEmail"); err != nil {
		return err
	}

	// nested artist object takes precedence over the flat key convention
	if raw, found := first(fields, "Artist", "artist"); found {
		var nested map[string]json.RawMessage
		if err = json.Unmarshal(raw, &nested); err != nil {
			return err
		}
		return unmarshalArtist(nested, &data.Artist, "")
	}
	return unmarshalArtist(fields, &data.Artist, "artist_")
}

func unmarshalArtist(fields map[string]json.RawMessage, artist *ArtistSubmission, prefix string) error {
	var err error
	if err = pick(fields, &artist.FirstName, variants(prefix, "first_name", "FirstName", "firstName")...); err != nil {
		return err
	}
	if err = pick(fields, &artist.LastName, variants(prefix, "last_name", "LastName", "lastName")...); err != nil {
		return err
	}
	if err = pick(fields, &artist.BirthYear, variants(prefix, "birth_year", "BirthYear", "birthYear")...); err != nil {
		return err
	}
	if err = pick(fields, &artist.DeathYear, variants(prefix, "death_year", "DeathYear", "deathYear")...); err != nil {
		return err
	}
	if err = pick(fields, &artist.Nationality, variants(prefix, "nationality", "Nationality")...); err != nil {
		return err
	}
	return pick(fields, &artist.Bio, variants(prefix, "bio", "Bio")...)
}

// variants expands key names with the flat-convention prefix, covering artist_first_name,
// artistFirstName and the canonical re-marshalled form.
func variants(prefix string, names ...string) []string {
	if prefix == "" {
		return names
	}
	var expanded = make([]string, 0, len(names)*2)
	for _, name := range names {
		expanded = append(expanded, prefix+name)
		// camelCase flat keys: artist_ + FirstName -> artistFirstName
		expanded = append(expanded, "artist"+upperFirst(name))
	}
	return expanded
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-32) + s[1:]
	}
	return s
}

func first(fields map[string]json.RawMessage, names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		if raw, found := fields[name]; found {
			return raw, true
		}
	}
	return nil, false
}

func pick(fields map[string]json.RawMessage, target any, names ...string) error {
	if raw, found := first(fields, names...); found {
		return json.Unmarshal(raw, target)
	}
	return nil
}

// Direct entry

var methodRule = validation.In(MethodPurchase, MethodBequest, MethodGift, MethodTransfer)

type AddAcquisitionData struct {
	ArtworkId string
	Date      ntime.NTime
	Method    int
	Price     *float64
	Source    string
}

func (data AddAcquisitionData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ArtworkId, validation.Required, validation.Length(36, 36)),
		validation.Field(&data.Method, validation.Required, methodRule),
		validation.Field(&data.Price, validation.Min(0.0)),
		validation.Field(&data.Source, validation.Length(0, 100)),
	)
}

type UpdateAcquisitionData = AddAcquisitionData

// Review

// ReviewData carries the curator confirmed details used to finalise an accepted donation.
type ReviewData struct {
	Title        string
	CreationYear ntime.NYear
	Height       *float64
	Width        *float64
	Depth        *float64
	Medium       string
	Description  string
	Artist       ArtistSubmission
	ArtistRole   string
}

func (data ReviewData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&data.Medium, validation.Length(0, 100)),
		validation.Field(&data.Description, validation.Length(0, 3000)),
		validation.Field(&data.ArtistRole, validation.Length(0, 50)),
	)
}

// AcceptOutcome reports what the acceptance transaction actually did. The artist link is a
// best-effort step: its failure doesn't void the acceptance, so the outcome states explicitly
// whether the creator was linked instead of burying the miss in a log line.
type AcceptOutcome struct {
	AcquisitionId string
	ArtworkId     string
	ArtistId      string `json:",omitempty"`
	ArtistLinked  bool
	ArtistCreated bool
}
