package activity

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
)

// Recorder appends entries to the activity log. Writes happen after the main operation's
// transaction commits and are fire-and-forget: failures are logged, never propagated, so a
// broken audit trail can't block collection management.
type Recorder struct {
	Connection *sql.DB
	Logger     logrus.FieldLogger
}

func NewRecorder(connection *sql.DB, logger logrus.FieldLogger) *Recorder {
	return &Recorder{connection, logger}
}

type Entry struct {
	Id          int64
	Action      string
	EntityTable string
	EntityId    string
	Description string
	User        string
	Date        time.Time
}

func (r *Recorder) Record(action, entityTable, entityId, description, userId string) {
	if _, err := r.Connection.Exec(`
		INSERT INTO activity_log (action, entity_table, entity_id, description, user, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		action, entityTable, entityId, description, userId, time.Now().UTC()); err != nil {
		r.Logger.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"table":  entityTable,
			"entity": entityId,
		}).Error("couldn't record activity")
	}
}

// GetRecent returns the latest entries, newest first, for the admin activity view.
func (r *Recorder) GetRecent(limit int) ([]Entry, error) {
	rows, err := r.Connection.Query(`
		SELECT id, action, entity_table, entity_id, description, user, date
		FROM activity_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var entries = make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err = rows.Scan(&entry.Id, &entry.Action, &entry.EntityTable, &entry.EntityId,
			&entry.Description, &entry.User, &entry.Date); err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return entries, err
	}
	return entries, rows.Close()
}
