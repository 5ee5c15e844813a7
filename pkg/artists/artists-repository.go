package artists

import (
	"database/sql"
	"errors"
	"time"

	"github.com/tmaselli/galleria/pkg/rest"
)

type ArtistRepository interface {
	GetAll() ([]Artist, error)
	GetById(id string) (Artist, error)
	Add(data AddArtistData) (*Artist, error)
	Update(id string, data UpdateArtistData) error
	Delete(id string) error
}

type Store struct {
	Connection *sql.DB
}

var ErrNotFound = errors.New("artist not found")

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

/*
Resolve implements the registry's find-or-create contract within a caller supplied transaction:
an exact match on first name, last name and birth year reuses the existing entry, leaving its
other attributes untouched even when the submission disagrees with them. The birth year
comparison uses the null-safe IS operator, so two unknown birth years match one another.
*/
func Resolve(tx *sql.Tx, data ResolveData) (artistId string, created bool, err error) {

	err = tx.QueryRow(`
		SELECT id FROM artists
		WHERE first_name = ? AND last_name = ? AND birth_year IS ? AND deleted = FALSE`,
		data.FirstName, data.LastName, data.BirthYear).Scan(&artistId)

	if err == nil {
		return artistId, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, err
	}

	// no match: register the artist with the submitted attributes
	artistId = rest.MustGetNewUUID()
	var now = time.Now()
	if _, err = tx.Exec(`
		INSERT INTO artists (id, first_name, last_name, birth_year, death_year, nationality, bio, deleted, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, ?, ?)`,
		artistId, data.FirstName, data.LastName, data.BirthYear, data.DeathYear,
		data.Nationality, data.Bio, now, now); err != nil {
		return "", false, err
	}
	return artistId, true, nil
}

func (as *Store) GetAll() ([]Artist, error) {
	rows, err := as.Connection.Query(`
		SELECT id, first_name, last_name, birth_year, death_year, nationality, bio, created, updated
		FROM artists WHERE deleted = FALSE ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}

	var all = make([]Artist, 0)
	for rows.Next() {
		var artist Artist
		if err = rows.Scan(&artist.Id, &artist.FirstName, &artist.LastName, &artist.BirthYear,
			&artist.DeathYear, &artist.Nationality, &artist.Bio, &artist.Created, &artist.Updated); err != nil {
			return all, err
		}
		all = append(all, artist)
	}

	if err = rows.Err(); err != nil {
		return all, err
	}
	return all, rows.Close()
}

func (as *Store) GetById(id string) (artist Artist, err error) {
	err = as.Connection.QueryRow(`
		SELECT id, first_name, last_name, birth_year, death_year, nationality, bio, created, updated
		FROM artists WHERE id = ? AND deleted = FALSE`, id).Scan(
		&artist.Id, &artist.FirstName, &artist.LastName, &artist.BirthYear,
		&artist.DeathYear, &artist.Nationality, &artist.Bio, &artist.Created, &artist.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return artist, ErrNotFound
	}
	return artist, err
}

func (as *Store) Add(data AddArtistData) (*Artist, error) {
	var id = rest.MustGetNewUUID()
	var now = time.Now()
	if _, err := as.Connection.Exec(`
		INSERT INTO artists (id, first_name, last_name, birth_year, death_year, nationality, bio, deleted, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, FALSE, ?, ?)`,
		id, data.FirstName, data.LastName, data.BirthYear, data.DeathYear,
		data.Nationality, data.Bio, now, now); err != nil {
		return nil, err
	}

	return &Artist{
		Id:          id,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		BirthYear:   data.BirthYear,
		DeathYear:   data.DeathYear,
		Nationality: data.Nationality,
		Bio:         data.Bio,
		Created:     now,
		Updated:     now,
	}, nil
}

func (as *Store) Update(id string, data UpdateArtistData) error {
	result, err := as.Connection.Exec(`
		UPDATE artists
		SET first_name = ?, last_name = ?, birth_year = ?, death_year = ?, nationality = ?, bio = ?, updated = ?
		WHERE id = ? AND deleted = FALSE`,
		data.FirstName, data.LastName, data.BirthYear, data.DeathYear,
		data.Nationality, data.Bio, time.Now(), id)
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

// Delete performs a soft delete; artists are never hard-deleted, preserving creator links.
func (as *Store) Delete(id string) error {
	result, err := as.Connection.Exec(`
		UPDATE artists SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
		time.Now(), id)
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
