package acquisitions

import (
	"encoding/json"
	"testing"
)

// Donor payloads arrive from several front-end revisions with diverging key conventions;
// each must decode to the same canonical submission.
func TestDonationSubmissionDecoding(t *testing.T) {
	payloads := map[string]string{
		"nested snake_case": `{
			"artwork_title": "Ritratto", "donor_name": "Bice Morandi", "creation_year": 1921,
			"artist": {"first_name": "Amedeo", "last_name": "Modigliani", "birth_year": 1884}
		}`,
		"flat snake_case": `{
			"artwork_title": "Ritratto", "donor_name": "Bice Morandi", "creation_year": 1921,
			"artist_first_name": "Amedeo", "artist_last_name": "Modigliani", "artist_birth_year": 1884
		}`,
		"flat camelCase": `{
			"artworkTitle": "Ritratto", "donorName": "Bice Morandi", "creationYear": 1921,
			"artistFirstName": "Amedeo", "artistLastName": "Modigliani", "artistBirthYear": 1884
		}`,
		"canonical": `{
			"ArtworkTitle": "Ritratto", "DonorName": "Bice Morandi", "CreationYear": 1921,
			"Artist": {"FirstName": "Amedeo", "LastName": "Modigliani", "BirthYear": 1884}
		}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			var submission DonationSubmission
			if err := json.Unmarshal([]byte(payload), &submission); err != nil {
				t.Fatalf("decoding submission: %v", err)
			}
			if submission.ArtworkTitle != "Ritratto" {
				t.Errorf("unexpected title %q", submission.ArtworkTitle)
			}
			if submission.DonorName != "Bice Morandi" {
				t.Errorf("unexpected donor %q", submission.DonorName)
			}
			if !submission.CreationYear.IsValid() || submission.CreationYear.Year() != 1921 {
				t.Errorf("unexpected creation year %v", submission.CreationYear)
			}
			if submission.Artist.FirstName != "Amedeo" || submission.Artist.LastName != "Modigliani" {
				t.Errorf("unexpected artist %+v", submission.Artist)
			}
			if !submission.Artist.BirthYear.IsValid() || submission.Artist.BirthYear.Year() != 1884 {
				t.Errorf("unexpected birth year %v", submission.Artist.BirthYear)
			}
		})
	}
}

func TestDonationSubmissionNestedArtistWins(t *testing.T) {
	payload := `{
		"donor_name": "Bice Morandi",
		"artist": {"last_name": "Modigliani"},
		"artist_last_name": "Overridden"
	}`

	var submission DonationSubmission
	if err := json.Unmarshal([]byte(payload), &submission); err != nil {
		t.Fatalf("decoding submission: %v", err)
	}
	if submission.Artist.LastName != "Modigliani" {
		t.Fatalf("expected the nested artist object to take precedence, got %q", submission.Artist.LastName)
	}
}

func TestDonationSubmissionValidation(t *testing.T) {
	if err := (DonationSubmission{DonorName: "Bice Morandi"}).Validate(); err != nil {
		t.Fatalf("expected a named donor to validate, got %v", err)
	}
	if err := (DonationSubmission{ArtworkTitle: "Ritratto"}).Validate(); err == nil {
		t.Fatal("expected an anonymous submission to fail validation")
	}
	if err := (DonationSubmission{DonorName: "Bice Morandi", DonorEmail: "not-an-email"}).Validate(); err == nil {
		t.Fatal("expected a malformed email to fail validation")
	}
}
