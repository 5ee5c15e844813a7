package exhibitions

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
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
	return NewStore(connection)
}

func insertArtwork(t *testing.T, connection *sql.DB, id string, owned, deleted bool) {
	t.Helper()
	if _, err := connection.Exec(`
		INSERT INTO artworks (id, title, owned, deleted, added, updated) VALUES (?, 'Piece', ?, ?, ?, ?)`,
		id, owned, deleted, ntime.Now(), ntime.Now()); err != nil {
		t.Fatalf("inserting artwork: %v", err)
	}
}

func TestLinkArtwork(t *testing.T) {
	store := newTestStore(t)
	exhibition, err := store.Add(AddExhibitionData{Title: "Spring Retrospective"})
	if err != nil {
		t.Fatalf("adding exhibition: %v", err)
	}

	const artworkId = "c1c76f35-02fa-40b7-92ea-21d86c32b6a8"
	insertArtwork(t, store.Connection, artworkId, true, false)

	if err = store.LinkArtwork(exhibition.Id, artworkId); err != nil {
		t.Fatalf("linking artwork: %v", err)
	}

	artworks, err := store.GetArtworks(exhibition.Id)
	if err != nil {
		t.Fatalf("fetching exhibited artworks: %v", err)
	}
	if len(artworks) != 1 || artworks[0].Id != artworkId {
		t.Fatalf("unexpected exhibited artworks: %+v", artworks)
	}

	if err = store.LinkArtwork(exhibition.Id, artworkId); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked on a repeated link, got %v", err)
	}
}

// Loaned and retired pieces can't join an exhibition roster.
func TestLinkArtworkRefusesUnavailablePieces(t *testing.T) {
	store := newTestStore(t)
	exhibition, err := store.Add(AddExhibitionData{Title: "Spring Retrospective"})
	if err != nil {
		t.Fatalf("adding exhibition: %v", err)
	}

	const unowned = "d2d76f35-02fa-40b7-92ea-21d86c32b6a9"
	const retired = "e3e76f35-02fa-40b7-92ea-21d86c32b6aa"
	insertArtwork(t, store.Connection, unowned, false, false)
	insertArtwork(t, store.Connection, retired, true, true)

	if err = store.LinkArtwork(exhibition.Id, unowned); !errors.Is(err, ErrBadArtwork) {
		t.Fatalf("expected ErrBadArtwork for an unowned piece, got %v", err)
	}
	if err = store.LinkArtwork(exhibition.Id, retired); !errors.Is(err, ErrBadArtwork) {
		t.Fatalf("expected ErrBadArtwork for a retired piece, got %v", err)
	}
}
