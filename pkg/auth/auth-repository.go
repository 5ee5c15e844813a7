package auth

import (
	"database/sql"
	"errors"
	"time"

	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the narrow surface other packages depend on to gate their routes; it spares
// them a dependency on session internals and avoids import cycles with the users package.
type Repository interface {
	GetSessionUser(token string) (userId string, err error)
	HasPermission(userId, permission string) bool
}

var (
	ErrBadCredentials = errors.New("wrong alias or password")
	ErrNoSession      = errors.New("session not found or expired")
)

// sessionDuration determines how long issued bearer tokens remain valid.
const sessionDuration = time.Hour * 24

type SessionRepository struct {
	Connection *sql.DB
}

func NewRepository(connection *sql.DB) *SessionRepository {
	return &SessionRepository{connection}
}

type Session struct {
	Token   string
	UserId  string
	Alias   string
	Expires ntime.NTime
}

// Login verifies the given credentials and issues a new session token.
// The credential check queries the users table directly rather than depending on the users
// package, whose repository depends on auth middleware in turn.
func (sr *SessionRepository) Login(alias, password string) (session Session, err error) {
	var userId, hash string
	err = sr.Connection.QueryRow(`
		SELECT id, password FROM users WHERE alias = ? AND deleted = FALSE`, alias).Scan(&userId, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return session, ErrBadCredentials
	}
	if err != nil {
		return session, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return session, ErrBadCredentials
	}

	var token = rest.MustGetNewUUID()
	var expires = time.Now().UTC().Add(sessionDuration)
	if _, err = sr.Connection.Exec(`
		INSERT INTO sessions (token, user, created, expires) VALUES (?, ?, ?, ?)`,
		token, userId, time.Now().UTC(), expires); err != nil {
		return session, err
	}

	return Session{token, userId, alias, ntime.FromTime(expires)}, nil
}

func (sr *SessionRepository) Logout(token string) error {
	result, err := sr.Connection.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNoSession
	}
	return nil
}

// GetSessionUser resolves a bearer token into a user id, refusing expired sessions.
func (sr *SessionRepository) GetSessionUser(token string) (userId string, err error) {
	err = sr.Connection.QueryRow(`
		SELECT user FROM sessions WHERE token = ? AND expires > ?`,
		token, time.Now().UTC()).Scan(&userId)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSession
	}
	return userId, err
}

func (sr *SessionRepository) HasPermission(userId, permission string) (allowed bool) {
	// will return false in the absence of positive results
	var err = sr.Connection.QueryRow(`
		SELECT TRUE FROM role_permissions
		WHERE permission = ? AND role IN (SELECT role FROM users WHERE id = ? AND deleted = FALSE)`,
		permission, userId).Scan(&allowed)
	return err == nil && allowed
}

// PurgeExpired removes stale sessions; scheduled through cron on server startup.
func (sr *SessionRepository) PurgeExpired() (int64, error) {
	result, err := sr.Connection.Exec(`DELETE FROM sessions WHERE expires <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
