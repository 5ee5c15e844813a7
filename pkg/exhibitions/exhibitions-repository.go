package exhibitions

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
)

type ExhibitionRepository interface {
	GetAll() ([]Exhibition, error)
	GetById(id string) (Exhibition, error)
	Add(data AddExhibitionData) (*Exhibition, error)
	Update(id string, data UpdateExhibitionData) error
	Delete(id string) error
	LinkArtwork(exhibitionId, artworkId string) error
	UnlinkArtwork(exhibitionId, artworkId string) error
	GetArtworks(exhibitionId string) ([]ExhibitedArtwork, error)
}

type Store struct {
	Connection *sql.DB
}

var (
	ErrNotFound      = errors.New("exhibition not found")
	ErrBadArtwork    = errors.New("artwork not found")
	ErrAlreadyLinked = errors.New("artwork already part of the exhibition")
)

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

func (es *Store) GetAll() ([]Exhibition, error) {
	rows, err := es.Connection.Query(`
		SELECT id, title, description, starts, ends, created, updated
		FROM exhibitions WHERE deleted = FALSE ORDER BY starts DESC`)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var all = make([]Exhibition, 0)
	for rows.Next() {
		var exhibition Exhibition
		if err = rows.Scan(&exhibition.Id, &exhibition.Title, &exhibition.Description,
			&exhibition.Starts, &exhibition.Ends, &exhibition.Created, &exhibition.Updated); err != nil {
			return all, err
		}
		all = append(all, exhibition)
	}
	return all, rows.Err()
}

func (es *Store) GetById(id string) (exhibition Exhibition, err error) {
	err = es.Connection.QueryRow(`
		SELECT id, title, description, starts, ends, created, updated
		FROM exhibitions WHERE id = ? AND deleted = FALSE`, id).Scan(
		&exhibition.Id, &exhibition.Title, &exhibition.Description,
		&exhibition.Starts, &exhibition.Ends, &exhibition.Created, &exhibition.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return exhibition, ErrNotFound
	}
	return exhibition, err
}

func (es *Store) Add(data AddExhibitionData) (*Exhibition, error) {
	var id = rest.MustGetNewUUID()
	var now = ntime.Now()
	if _, err := es.Connection.Exec(`
		INSERT INTO exhibitions (id, title, description, starts, ends, deleted, created, updated)
		VALUES (?, ?, ?, ?, ?, FALSE, ?, ?)`,
		id, data.Title, data.Description, data.Starts, data.Ends, now, now); err != nil {
		return nil, err
	}

	return &Exhibition{
		Id:          id,
		Title:       data.Title,
		Description: data.Description,
		Starts:      data.Starts,
		Ends:        data.Ends,
		Created:     now,
		Updated:     now,
	}, nil
}

func (es *Store) Update(id string, data UpdateExhibitionData) error {
	result, err := es.Connection.Exec(`
		UPDATE exhibitions SET title = ?, description = ?, starts = ?, ends = ?, updated = ?
		WHERE id = ? AND deleted = FALSE`,
		data.Title, data.Description, data.Starts, data.Ends, ntime.Now(), id)
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

func (es *Store) Delete(id string) error {
	result, err := es.Connection.Exec(`
		UPDATE exhibitions SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
		ntime.Now(), id)
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

// LinkArtwork attaches an active, owned artwork to an exhibition. The guarded insert keeps
// deleted pieces and placeholders out of the show; a duplicate pair violates the primary key.
func (es *Store) LinkArtwork(exhibitionId, artworkId string) error {
	result, err := es.Connection.Exec(`
		INSERT INTO exhibition_artworks (exhibition, artwork, added)
		SELECT ?, id, ? FROM artworks WHERE id = ? AND deleted = FALSE AND owned = TRUE`,
		exhibitionId, ntime.Now(), artworkId)

	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrAlreadyLinked
		}
	}
	if err != nil {
		return err
	}

	if linked, e := result.RowsAffected(); e != nil {
		return e
	} else if linked == 0 {
		return ErrBadArtwork
	}
	return nil
}

func (es *Store) UnlinkArtwork(exhibitionId, artworkId string) error {
	result, err := es.Connection.Exec(`
		DELETE FROM exhibition_artworks WHERE exhibition = ? AND artwork = ?`,
		exhibitionId, artworkId)
	if err != nil {
		return err
	}
	if unlinked, e := result.RowsAffected(); e != nil {
		return e
	} else if unlinked == 0 {
		return ErrBadArtwork
	}
	return nil
}

func (es *Store) GetArtworks(exhibitionId string) ([]ExhibitedArtwork, error) {
	rows, err := es.Connection.Query(`
		SELECT id, title, creation_year, medium, exhibition_artworks.added
		FROM exhibition_artworks JOIN artworks ON exhibition_artworks.artwork = artworks.id
		WHERE exhibition = ? AND deleted = FALSE
		ORDER BY exhibition_artworks.added`, exhibitionId)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var exhibited = make([]ExhibitedArtwork, 0)
	for rows.Next() {
		var artwork ExhibitedArtwork
		if err = rows.Scan(&artwork.Id, &artwork.Title, &artwork.CreationYear,
			&artwork.Medium, &artwork.Added); err != nil {
			return exhibited, err
		}
		exhibited = append(exhibited, artwork)
	}
	return exhibited, rows.Err()
}
