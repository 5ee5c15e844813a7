package acquisitions

import (
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/tmaselli/galleria/pkg/artists"
	"github.com/tmaselli/galleria/pkg/artworks"
	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	connection, err := sql.Open("sqlite3", "file::memory:?_fk=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	// a single connection keeps the in-memory database alive and shared
	connection.SetMaxOpenConns(1)
	if err = sqlite.CreateSchema(connection); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	t.Cleanup(func() { _ = connection.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewStore(connection, logger)
}

func submitTestDonation(t *testing.T, store *Store) *Acquisition {
	t.Helper()
	acquisition, err := store.SubmitDonation(DonationSubmission{
		ArtworkTitle: "Seascape at Dusk",
		DonorName:    "Amalia Serra",
		DonorEmail:   "amalia@example.com",
		Artist: ArtistSubmission{
			FirstName: "Telemaco",
			LastName:  "Signorini",
			BirthYear: ntime.NewYear(1835),
		},
	})
	if err != nil {
		t.Fatalf("submitting donation: %v", err)
	}
	return acquisition
}

func TestAcceptCreatesOwnedArtworkAndArtist(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	outcome, err := store.Accept(donation.Id, ReviewData{
		Title:        "Seascape at Dusk",
		CreationYear: ntime.NewYear(1870),
		Medium:       "Oil on canvas",
		Artist:       ArtistSubmission{FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835)},
	})
	if err != nil {
		t.Fatalf("accepting donation: %v", err)
	}

	if outcome.ArtworkId == "" {
		t.Fatal("expected an artwork to be attached")
	}
	if !outcome.ArtistCreated || !outcome.ArtistLinked || outcome.ArtistId == "" {
		t.Fatalf("expected a newly registered, linked artist, got %+v", outcome)
	}

	var title string
	var owned, deleted bool
	if err = store.Connection.QueryRow(`
		SELECT title, owned, deleted FROM artworks WHERE id = ?`,
		outcome.ArtworkId).Scan(&title, &owned, &deleted); err != nil {
		t.Fatalf("fetching accepted artwork: %v", err)
	}
	if title != "Seascape at Dusk" || !owned || deleted {
		t.Fatalf("unexpected artwork state: title %q, owned %v, deleted %v", title, owned, deleted)
	}

	var artworkCount int
	if err = store.Connection.QueryRow(`SELECT count(*) FROM artworks`).Scan(&artworkCount); err != nil {
		t.Fatalf("counting artworks: %v", err)
	}
	if artworkCount != 1 {
		t.Fatalf("expected exactly one artwork, found %d", artworkCount)
	}

	var linked bool
	if err = store.Connection.QueryRow(`
		SELECT TRUE FROM artwork_creators WHERE artwork = ? AND artist = ?`,
		outcome.ArtworkId, outcome.ArtistId).Scan(&linked); err != nil {
		t.Fatalf("fetching creator link: %v", err)
	}

	accepted, err := store.GetById(donation.Id)
	if err != nil {
		t.Fatalf("fetching accepted acquisition: %v", err)
	}
	if accepted.Status != StatusAccepted || accepted.Method == nil || *accepted.Method != MethodGift {
		t.Fatalf("unexpected acquisition state: %+v", accepted)
	}
}

func TestAcceptReusesRegisteredArtist(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	tx, err := store.Connection.Begin()
	if err != nil {
		t.Fatalf("beginning transaction: %v", err)
	}
	knownId, _, err := artists.Resolve(tx, artists.ResolveData{
		FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835),
	})
	if err != nil {
		t.Fatalf("registering artist: %v", err)
	}
	if err = tx.Commit(); err != nil {
		t.Fatalf("committing: %v", err)
	}

	outcome, err := store.Accept(donation.Id, ReviewData{
		Title:  "Seascape at Dusk",
		Artist: ArtistSubmission{FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835)},
	})
	if err != nil {
		t.Fatalf("accepting donation: %v", err)
	}

	if outcome.ArtistCreated {
		t.Fatal("expected the registered artist to be reused")
	}
	if outcome.ArtistId != knownId {
		t.Fatalf("expected artist %q to be linked, got %q", knownId, outcome.ArtistId)
	}
}

func TestAcceptReplayConflicts(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)
	review := ReviewData{Title: "Seascape at Dusk"}

	if _, err := store.Accept(donation.Id, review); err != nil {
		t.Fatalf("accepting donation: %v", err)
	}

	if _, err := store.Accept(donation.Id, review); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending on a replayed acceptance, got %v", err)
	}

	var artworkCount int
	if err := store.Connection.QueryRow(`SELECT count(*) FROM artworks`).Scan(&artworkCount); err != nil {
		t.Fatalf("counting artworks: %v", err)
	}
	if artworkCount != 1 {
		t.Fatalf("expected the replay to add no artworks, found %d", artworkCount)
	}
}

func TestRejectAfterAcceptConflicts(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	if _, err := store.Accept(donation.Id, ReviewData{Title: "Seascape at Dusk"}); err != nil {
		t.Fatalf("accepting donation: %v", err)
	}
	if _, err := store.Reject(donation.Id); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending when rejecting an accepted donation, got %v", err)
	}
}

func TestRejectAnnotatesAttachedArtwork(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	// simulate a prior partial acceptance which attached a placeholder before failing
	tx, err := store.Connection.Begin()
	if err != nil {
		t.Fatalf("beginning transaction: %v", err)
	}
	if _, err = tx.Exec(`
		INSERT INTO artworks (id, title, owned, deleted, added, updated)
		VALUES ('a3a76f35-02fa-40b7-92ea-21d86c32b6a0', 'Unknown', FALSE, FALSE, ?, ?)`,
		ntime.Now(), ntime.Now()); err != nil {
		t.Fatalf("inserting placeholder: %v", err)
	}
	if _, err = tx.Exec(`UPDATE acquisitions SET artwork = 'a3a76f35-02fa-40b7-92ea-21d86c32b6a0' WHERE id = ?`,
		donation.Id); err != nil {
		t.Fatalf("attaching placeholder: %v", err)
	}
	if err = tx.Commit(); err != nil {
		t.Fatalf("committing: %v", err)
	}

	rejectedArtworkId, err := store.Reject(donation.Id)
	if err != nil {
		t.Fatalf("rejecting donation: %v", err)
	}
	if rejectedArtworkId == "" {
		t.Fatal("expected the attached artwork to be reported")
	}

	var title string
	var deleted bool
	if err = store.Connection.QueryRow(`SELECT title, deleted FROM artworks WHERE id = ?`,
		rejectedArtworkId).Scan(&title, &deleted); err != nil {
		t.Fatalf("fetching rejected artwork: %v", err)
	}
	if !deleted {
		t.Fatal("expected the rejected artwork to be soft deleted")
	}
	if !strings.Contains(title, "(rejected #"+donation.Id+")") {
		t.Fatalf("expected the title to be annotated, got %q", title)
	}
}

func TestRejectWithoutArtworkTouchesNoArtworks(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	rejectedArtworkId, err := store.Reject(donation.Id)
	if err != nil {
		t.Fatalf("rejecting donation: %v", err)
	}
	if rejectedArtworkId != "" {
		t.Fatalf("expected no artwork to be reported, got %q", rejectedArtworkId)
	}

	var artworkCount int
	if err = store.Connection.QueryRow(`SELECT count(*) FROM artworks`).Scan(&artworkCount); err != nil {
		t.Fatalf("counting artworks: %v", err)
	}
	if artworkCount != 0 {
		t.Fatalf("expected no artworks, found %d", artworkCount)
	}
}

func TestReviewingUnknownDonation(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Accept("c5c76f35-02fa-40b7-92ea-21d86c32b6a2", ReviewData{Title: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Direct register entries bypass the review workflow entirely and must not create artworks.
func TestDirectEntryHasNoSideEffects(t *testing.T) {
	store := newTestStore(t)

	// a direct entry records an artwork already catalogued by the curators
	var artworkId = "b4b76f35-02fa-40b7-92ea-21d86c32b6a1"
	if _, err := store.Connection.Exec(`
		INSERT INTO artworks (id, title, owned, deleted, added, updated) VALUES (?, 'Vase', TRUE, FALSE, ?, ?)`,
		artworkId, ntime.Now(), ntime.Now()); err != nil {
		t.Fatalf("inserting artwork: %v", err)
	}

	price := 1200.0
	acquisition, err := store.Add(AddAcquisitionData{
		ArtworkId: artworkId,
		Method:    MethodPurchase,
		Price:     &price,
		Source:    "Galleria Franchi",
	})
	if err != nil {
		t.Fatalf("adding acquisition: %v", err)
	}

	if acquisition.Status != StatusAccepted {
		t.Fatalf("expected a direct entry to be born accepted, got %q", acquisition.Status)
	}

	var artworkCount int
	if err = store.Connection.QueryRow(`SELECT count(*) FROM artworks`).Scan(&artworkCount); err != nil {
		t.Fatalf("counting artworks: %v", err)
	}
	if artworkCount != 1 {
		t.Fatalf("expected no artwork side effects, found %d artworks", artworkCount)
	}

	pending, err := store.GetPending()
	if err != nil {
		t.Fatalf("fetching pending donations: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending reviews, found %d", len(pending))
	}
}

func TestAcceptResumesPriorPartialRun(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	// stage the leftovers of an interrupted acceptance: a registered artist, an attached
	// placeholder and the creator link already in place
	tx, err := store.Connection.Begin()
	if err != nil {
		t.Fatalf("beginning staging transaction: %v", err)
	}
	artistId, _, err := artists.Resolve(tx, artists.ResolveData{
		FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835),
	})
	if err != nil {
		t.Fatalf("registering artist: %v", err)
	}
	artworkId, err := artworks.CreatePlaceholder(tx)
	if err != nil {
		t.Fatalf("creating placeholder: %v", err)
	}
	if _, err = tx.Exec(`UPDATE acquisitions SET artwork = ? WHERE id = ?`, artworkId, donation.Id); err != nil {
		t.Fatalf("attaching placeholder: %v", err)
	}
	if err = artworks.LinkCreatorTx(tx, artworkId, artistId, "Creator"); err != nil {
		t.Fatalf("linking creator: %v", err)
	}
	if err = tx.Commit(); err != nil {
		t.Fatalf("committing staged state: %v", err)
	}

	outcome, err := store.Accept(donation.Id, ReviewData{
		Title:        "Seascape at Dusk",
		CreationYear: ntime.NewYear(1870),
		Medium:       "Oil on canvas",
		Artist:       ArtistSubmission{FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835)},
	})
	if err != nil {
		t.Fatalf("accepting donation: %v", err)
	}

	if outcome.ArtworkId != artworkId {
		t.Fatalf("expected the attached artwork %q to be reused, got %q", artworkId, outcome.ArtworkId)
	}
	if outcome.ArtistCreated {
		t.Fatal("expected the registered artist to be reused, not recreated")
	}
	if outcome.ArtistId != artistId || !outcome.ArtistLinked {
		t.Fatalf("expected the staged artist to be linked, got %+v", outcome)
	}

	var links int
	if err = store.Connection.QueryRow(`
		SELECT count(*) FROM artwork_creators WHERE artwork = ? AND artist = ?`,
		artworkId, artistId).Scan(&links); err != nil {
		t.Fatalf("counting creator links: %v", err)
	}
	if links != 1 {
		t.Fatalf("expected a single creator link, found %d", links)
	}
}

func TestAcceptRollsBackOnBackfillFailure(t *testing.T) {
	store := newTestStore(t)
	donation := submitTestDonation(t, store)

	// an aborting trigger stands in for a database failure during the artwork backfill,
	// which runs after the status swap
	if _, err := store.Connection.Exec(`
		CREATE TRIGGER refuse_backfill BEFORE UPDATE ON artworks
		BEGIN SELECT RAISE(ABORT, 'backfill refused'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	if _, err := store.Accept(donation.Id, ReviewData{
		Title:  "Seascape at Dusk",
		Medium: "Oil on canvas",
		Artist: ArtistSubmission{FirstName: "Telemaco", LastName: "Signorini", BirthYear: ntime.NewYear(1835)},
	}); err == nil {
		t.Fatal("expected the aborted backfill to fail the acceptance")
	}

	var status string
	var artwork sql.NullString
	if err := store.Connection.QueryRow(`
		SELECT status, artwork FROM acquisitions WHERE id = ?`,
		donation.Id).Scan(&status, &artwork); err != nil {
		t.Fatalf("fetching donation: %v", err)
	}
	if status != StatusPending {
		t.Fatalf("expected the donation to remain pending, got %q", status)
	}
	if artwork.Valid {
		t.Fatalf("expected no artwork to remain attached, found %q", artwork.String)
	}

	for _, table := range []string{"artworks", "artists", "artwork_creators"} {
		var count int
		if err := store.Connection.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("expected no persisted %s rows, found %d", table, count)
		}
	}
}
