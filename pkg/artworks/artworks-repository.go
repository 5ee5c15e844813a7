package artworks

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
)

type ArtworkRepository interface {
	GetCollection() ([]Artwork, error)
	GetById(artworkId string) (Artwork, error)
	Add(data AddArtworkData) (*Artwork, error)
	Update(artworkId string, data UpdateArtworkData) error
	Delete(artworkId string) error
	GetCreators(artworkId string) ([]Creator, error)
	LinkCreator(artworkId, artistId, role string) error

	GetLocations() ([]Location, error)
	AddLocation(data AddLocationData) (*Location, error)
}

type Store struct {
	Connection *sql.DB
}

var (
	ErrNotFound = errors.New("artwork not found")
)

// placeholderTitle marks artworks created as bare foreign-key targets during donation intake,
// before the curator confirms the piece's details.
const placeholderTitle = "Unknown"

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

// GetCollection lists the active collection: owned pieces which weren't soft-deleted.
// Placeholder rows attached to pending donations never satisfy the owned filter.
func (ar *Store) GetCollection() ([]Artwork, error) {
	rows, err := ar.Connection.Query(`
		SELECT id, title, creation_year, height, width, depth, medium, description, owned, location, added, updated
		FROM artworks
		WHERE deleted = FALSE AND owned = TRUE
		ORDER BY added DESC`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var collection = make([]Artwork, 0)
	for rows.Next() {
		var artwork Artwork
		if err = rows.Scan(&artwork.Id, &artwork.Title, &artwork.CreationYear, &artwork.Height,
			&artwork.Width, &artwork.Depth, &artwork.Medium, &artwork.Description, &artwork.Owned,
			&artwork.Location, &artwork.Added, &artwork.Updated); err != nil {
			return collection, err
		}
		collection = append(collection, artwork)
	}
	return collection, rows.Err()
}

func (ar *Store) GetById(artworkId string) (artwork Artwork, err error) {
	err = ar.Connection.QueryRow(`
		SELECT id, title, creation_year, height, width, depth, medium, description, owned, location, added, updated
		FROM artworks WHERE id = ? AND deleted = FALSE`, artworkId).Scan(
		&artwork.Id, &artwork.Title, &artwork.CreationYear, &artwork.Height, &artwork.Width,
		&artwork.Depth, &artwork.Medium, &artwork.Description, &artwork.Owned, &artwork.Location,
		&artwork.Added, &artwork.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return artwork, ErrNotFound
	}
	return artwork, err
}

// Add registers a fully described piece; the direct entry path always yields an owned artwork.
func (ar *Store) Add(data AddArtworkData) (*Artwork, error) {
	var id = rest.MustGetNewUUID()
	var now = ntime.Now()
	if _, err := ar.Connection.Exec(`
		INSERT INTO artworks (id, title, creation_year, height, width, depth, medium, description, owned, deleted, location, added, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, TRUE, FALSE, ?, ?, ?)`,
		id, data.Title, data.CreationYear, data.Height, data.Width, data.Depth,
		data.Medium, data.Description, data.Location, now, now); err != nil {
		return nil, err
	}

	return &Artwork{
		Id:           id,
		Title:        data.Title,
		CreationYear: data.CreationYear,
		Height:       data.Height,
		Width:        data.Width,
		Depth:        data.Depth,
		Medium:       data.Medium,
		Description:  data.Description,
		Owned:        true,
		Location:     data.Location,
		Added:        now,
		Updated:      now,
	}, nil
}

func (ar *Store) Update(artworkId string, data UpdateArtworkData) error {
	result, err := ar.Connection.Exec(`
		UPDATE artworks
		SET title = ?, creation_year = ?, height = ?, width = ?, depth = ?, medium = ?, description = ?, location = ?, updated = ?
		WHERE id = ? AND deleted = FALSE`,
		data.Title, data.CreationYear, data.Height, data.Width, data.Depth,
		data.Medium, data.Description, data.Location, ntime.Now(), artworkId)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete performs a soft delete, keeping the row for acquisition and exhibition history.
func (ar *Store) Delete(artworkId string) error {
	result, err := ar.Connection.Exec(`
		UPDATE artworks SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
		ntime.Now(), artworkId)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (ar *Store) GetCreators(artworkId string) ([]Creator, error) {
	rows, err := ar.Connection.Query(`
		SELECT artist, first_name, last_name, role
		FROM artwork_creators JOIN artists ON artwork_creators.artist = artists.id
		WHERE artwork = ?`, artworkId)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var creators = make([]Creator, 0)
	for rows.Next() {
		var creator Creator
		if err = rows.Scan(&creator.ArtistId, &creator.FirstName, &creator.LastName, &creator.Role); err != nil {
			return creators, err
		}
		creators = append(creators, creator)
	}
	return creators, rows.Err()
}

// LinkCreator associates an artist with an artwork outside the donation workflow; the pair's
// primary key makes repeated links a no-op rather than a duplicate.
func (ar *Store) LinkCreator(artworkId, artistId, role string) error {
	if role == "" {
		role = "Creator"
	}
	_, err := ar.Connection.Exec(`
		INSERT INTO artwork_creators (artwork, artist, role) VALUES (?, ?, ?)
		ON CONFLICT (artwork, artist) DO NOTHING`,
		artworkId, artistId, role)
	return err
}

// CreatePlaceholder inserts the sparse artwork row donations point at before review completes.
// It belongs to the acceptance transaction, hence the explicit tx.
func CreatePlaceholder(tx *sql.Tx) (artworkId string, err error) {
	artworkId = rest.MustGetNewUUID()
	var now = ntime.Now()
	_, err = tx.Exec(`
		INSERT INTO artworks (id, title, owned, deleted, added, updated)
		VALUES (?, ?, FALSE, FALSE, ?, ?)`,
		artworkId, placeholderTitle, now, now)
	return artworkId, err
}

// Complete backfills an artwork with curator confirmed details, unconditionally forcing the
// owned and active flags: an accepted donation always joins the collection. Last writer wins.
func Complete(tx *sql.Tx, artworkId string, data CompletionData) error {
	result, err := tx.Exec(`
		UPDATE artworks
		SET title = ?, creation_year = ?, height = ?, width = ?, depth = ?, medium = ?, description = ?,
		    owned = TRUE, deleted = FALSE, updated = ?
		WHERE id = ?`,
		data.Title, data.CreationYear, data.Height, data.Width, data.Depth,
		data.Medium, data.Description, ntime.Now(), artworkId)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// LinkCreatorTx mirrors LinkCreator within the acceptance transaction.
func LinkCreatorTx(tx *sql.Tx, artworkId, artistId, role string) error {
	if role == "" {
		role = "Creator"
	}
	_, err := tx.Exec(`
		INSERT INTO artwork_creators (artwork, artist, role) VALUES (?, ?, ?)
		ON CONFLICT (artwork, artist) DO NOTHING`,
		artworkId, artistId, role)
	return err
}

// MarkRejected soft-deletes the artwork attached to a rejected donation, annotating its title
// so the refusal remains visible in admin views which bypass the deletion filter.
func MarkRejected(tx *sql.Tx, artworkId, acquisitionId string) error {
	result, err := tx.Exec(`
		UPDATE artworks
		SET deleted = TRUE, title = title || ?, updated = ?
		WHERE id = ?`,
		fmt.Sprintf(" (rejected #%s)", acquisitionId), ntime.Now(), artworkId)
	if err != nil {
		return err
	}
	if affected, e := result.RowsAffected(); e != nil {
		return e
	} else if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (ar *Store) GetLocations() ([]Location, error) {
	rows, err := ar.Connection.Query(`SELECT id, name, description FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var locations = make([]Location, 0)
	for rows.Next() {
		var location Location
		if err = rows.Scan(&location.Id, &location.Name, &location.Description); err != nil {
			return locations, err
		}
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

func (ar *Store) AddLocation(data AddLocationData) (*Location, error) {
	var id = rest.MustGetNewUUID()
	if _, err := ar.Connection.Exec(`
		INSERT INTO locations (id, name, description) VALUES (?, ?, ?)`,
		id, data.Name, data.Description); err != nil {
		return nil, err
	}
	return &Location{id, data.Name, data.Description}, nil
}
