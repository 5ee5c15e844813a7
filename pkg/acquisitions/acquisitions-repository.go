package acquisitions

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/tmaselli/galleria/pkg/artists"
	"github.com/tmaselli/galleria/pkg/artworks"
	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
)

type AcquisitionRepository interface {
	GetAll() ([]Acquisition, error)
	GetPending() ([]Acquisition, error)
	GetById(id string) (Acquisition, error)
	SubmitDonation(data DonationSubmission) (*Acquisition, error)
	Add(data AddAcquisitionData) (*Acquisition, error)
	Update(id string, data UpdateAcquisitionData) error
	Delete(id string) error
	Accept(id string, data ReviewData) (AcceptOutcome, error)
	Reject(id string) (rejectedArtworkId string, err error)
}

type Store struct {
	Connection *sql.DB
	Logger     logrus.FieldLogger
}

var (
	ErrNotFound   = errors.New("acquisition not found")
	ErrNotPending = errors.New("acquisition already reviewed")
)

func NewStore(connection *sql.DB, logger logrus.FieldLogger) *Store {
	return &Store{connection, logger}
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

// SubmitDonation records a public donation proposal: a pending acquisition with no artwork
// attached and the normalised donor payload stored as a JSON snapshot for later display.
func (as *Store) SubmitDonation(data DonationSubmission) (*Acquisition, error) {

	snapshot, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var id = rest.MustGetNewUUID()
	var now = ntime.Now()
	if _, err = as.Connection.Exec(`
		INSERT INTO acquisitions (id, artwork, date, method, price, source, status, submission, deleted, created, updated)
		VALUES (?, NULL, NULL, NULL, NULL, ?, ?, ?, FALSE, ?, ?)`,
		id, data.DonorName, StatusPending, string(snapshot), now, now); err != nil {
		return nil, err
	}

	return &Acquisition{
		Id:         id,
		Source:     data.DonorName,
		Status:     StatusPending,
		Submission: &data,
		Created:    now,
		Updated:    now,
	}, nil
}

// Add records a direct staff entry: the artwork already exists and the acquisition is final on
// creation, with no review step involved.
func (as *Store) Add(data AddAcquisitionData) (*Acquisition, error) {

	var id = rest.MustGetNewUUID()
	var now = ntime.Now()
	var date = data.Date
	if !date.IsValid() {
		date = ntime.Today()
	}

	if _, err := as.Connection.Exec(`
		INSERT INTO acquisitions (id, artwork, date, method, price, source, status, submission, deleted, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, NULL, FALSE, ?, ?)`,
		id, data.ArtworkId, date, data.Method, data.Price, data.Source, StatusAccepted, now, now); err != nil {
		return nil, err
	}

	var method = data.Method
	return &Acquisition{
		Id:        id,
		ArtworkId: &data.ArtworkId,
		Date:      date,
		Method:    &method,
		Price:     data.Price,
		Source:    data.Source,
		Status:    StatusAccepted,
		Created:   now,
		Updated:   now,
	}, nil
}

func (as *Store) Update(id string, data UpdateAcquisitionData) error {
	result, err := as.Connection.Exec(`
		UPDATE acquisitions SET artwork = ?, date = ?, method = ?, price = ?, source = ?, updated = ?
		WHERE id = ? AND deleted = FALSE AND status != ?`,
		data.ArtworkId, data.Date, data.Method, data.Price, data.Source, ntime.Now(), id, StatusPending)
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

// Delete soft-deletes an acquisition record; the register keeps tombstones for auditing, the
// same convention used for artists and artworks.
func (as *Store) Delete(id string) error {
	result, err := as.Connection.Exec(`
		UPDATE acquisitions SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
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

/*
Accept finalises a pending donation in a single transaction:

 1. flips the status to accepted, hard-setting the method to Gift and the date to today; the
    conditional update doubles as a compare-and-swap, so a replayed acceptance (double form
    submission, two concurrent curators) fails with ErrNotPending instead of re-running side effects
 2. resolves or registers the artist, when the review names one; this step is best-effort and
    its failure leaves the acceptance intact, reported through the outcome rather than aborting
 3. attaches a placeholder artwork when the donation has none, then backfills it with the
    curator confirmed details, forcing the owned and active flags
 4. links the artist as creator, if one was resolved; the link's primary key makes replays of
    prior partial runs a no-op

Any error past the status swap rolls the whole transaction back, leaving the donation pending.
*/
func (as *Store) Accept(id string, data ReviewData) (outcome AcceptOutcome, err error) {

	tx, err := as.Connection.Begin()
	if err != nil {
		return outcome, err
	}

	// rolling back after a transaction commit results in a safe NOP
	defer func() {
		_ = tx.Rollback()
	}()

	if err = as.transition(tx, id, StatusAccepted); err != nil {
		return outcome, err
	}
	outcome.AcquisitionId = id

	// fetch the possibly null artwork attached during a prior partial run
	var artworkId sql.NullString
	if err = tx.QueryRow(`SELECT artwork FROM acquisitions WHERE id = ?`, id).Scan(&artworkId); err != nil {
		return outcome, err
	}

	// best-effort artist resolution; a nameless submission skips the registry entirely
	if data.Artist.Named() {
		artistId, created, resolveErr := artists.Resolve(tx, artists.ResolveData{
			FirstName:   data.Artist.FirstName,
			LastName:    data.Artist.LastName,
			BirthYear:   data.Artist.BirthYear,
			DeathYear:   data.Artist.DeathYear,
			Nationality: data.Artist.Nationality,
			Bio:         data.Artist.Bio,
		})
		if resolveErr != nil {
			as.Logger.WithError(resolveErr).WithField("acquisition", id).Error("couldn't resolve donation artist")
		} else {
			outcome.ArtistId = artistId
			outcome.ArtistCreated = created
		}
	}

	if !artworkId.Valid {
		newArtworkId, placeholderErr := artworks.CreatePlaceholder(tx)
		if placeholderErr != nil {
			return outcome, placeholderErr
		}
		// attach the placeholder immediately, so a crash mid-workflow leaves a traceable link
		if _, err = tx.Exec(`UPDATE acquisitions SET artwork = ?, updated = ? WHERE id = ?`,
			newArtworkId, ntime.Now(), id); err != nil {
			return outcome, err
		}
		artworkId = sql.NullString{String: newArtworkId, Valid: true}
	}
	outcome.ArtworkId = artworkId.String

	if err = artworks.Complete(tx, artworkId.String, artworks.CompletionData{
		Title:        data.Title,
		CreationYear: data.CreationYear,
		Height:       data.Height,
		Width:        data.Width,
		Depth:        data.Depth,
		Medium:       data.Medium,
		Description:  data.Description,
	}); err != nil {
		return outcome, err
	}

	if outcome.ArtistId != "" {
		if err = artworks.LinkCreatorTx(tx, artworkId.String, outcome.ArtistId, data.ArtistRole); err != nil {
			return outcome, err
		}
		outcome.ArtistLinked = true
	}

	return outcome, tx.Commit()
}

// Reject marks a pending donation as refused; an attached artwork is soft-deleted with its
// title annotated, while a donation with no artwork leaves the artworks table untouched.
func (as *Store) Reject(id string) (rejectedArtworkId string, err error) {

	tx, err := as.Connection.Begin()
	if err != nil {
		return "", err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err = as.transition(tx, id, StatusRejected); err != nil {
		return "", err
	}

	var artworkId sql.NullString
	if err = tx.QueryRow(`SELECT artwork FROM acquisitions WHERE id = ?`, id).Scan(&artworkId); err != nil {
		return "", err
	}

	if artworkId.Valid {
		if err = artworks.MarkRejected(tx, artworkId.String, id); err != nil {
			return "", err
		}
		rejectedArtworkId = artworkId.String
	}

	return rejectedArtworkId, tx.Commit()
}

// transition performs the guarded pending -> terminal state swap; acceptance also stamps the
// method and date, as every reviewed donation enters the register as a gift dated today.
func (as *Store) transition(tx *sql.Tx, id, status string) error {

	var result sql.Result
	var err error
	if status == StatusAccepted {
		result, err = tx.Exec(`
			UPDATE acquisitions SET status = ?, method = ?, date = ?, updated = ?
			WHERE id = ? AND status = ? AND deleted = FALSE`,
			StatusAccepted, MethodGift, ntime.Today(), ntime.Now(), id, StatusPending)
	} else {
		result, err = tx.Exec(`
			UPDATE acquisitions SET status = ?, updated = ?
			WHERE id = ? AND status = ? AND deleted = FALSE`,
			status, ntime.Now(), id, StatusPending)
	}
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// distinguish a replayed review from a missing record
	var exists bool
	if tx.QueryRow(`SELECT TRUE FROM acquisitions WHERE id = ? AND deleted = FALSE`, id).Scan(&exists) == nil && exists {
		return ErrNotPending
	}
	return ErrNotFound
}

func (as *Store) GetAll() ([]Acquisition, error) {
	return as.query(`
		SELECT id, artwork, date, method, price, source, status, submission, created, updated
		FROM acquisitions WHERE deleted = FALSE ORDER BY created DESC`)
}

func (as *Store) GetPending() ([]Acquisition, error) {
	return as.query(`
		SELECT id, artwork, date, method, price, source, status, submission, created, updated
		FROM acquisitions WHERE deleted = FALSE AND status = ? ORDER BY created ASC`, StatusPending)
}

func (as *Store) query(statement string, args ...any) ([]Acquisition, error) {
	rows, err := as.Connection.Query(statement, args...)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	var all = make([]Acquisition, 0)
	for rows.Next() {
		acquisition, err := scanAcquisition(rows.Scan)
		if err != nil {
			return all, err
		}
		all = append(all, acquisition)
	}
	return all, rows.Err()
}

func (as *Store) GetById(id string) (Acquisition, error) {
	acquisition, err := scanAcquisition(as.Connection.QueryRow(`
		SELECT id, artwork, date, method, price, source, status, submission, created, updated
		FROM acquisitions WHERE id = ? AND deleted = FALSE`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return acquisition, ErrNotFound
	}
	return acquisition, err
}

func scanAcquisition(scan func(...any) error) (acquisition Acquisition, err error) {
	var artwork sql.NullString
	var method sql.NullInt64
	var price sql.NullFloat64
	var submission sql.NullString

	if err = scan(&acquisition.Id, &artwork, &acquisition.Date, &method, &price,
		&acquisition.Source, &acquisition.Status, &submission, &acquisition.Created,
		&acquisition.Updated); err != nil {
		return acquisition, err
	}

	if artwork.Valid {
		acquisition.ArtworkId = &artwork.String
	}
	if method.Valid {
		var m = int(method.Int64)
		acquisition.Method = &m
	}
	if price.Valid {
		acquisition.Price = &price.Float64
	}
	if submission.Valid {
		// tolerate snapshots which predate the canonical schema; display is best-effort
		var payload DonationSubmission
		if unmarshalErr := json.Unmarshal([]byte(submission.String), &payload); unmarshalErr == nil {
			acquisition.Submission = &payload
		}
	}
	return acquisition, nil
}
