package auth_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tmaselli/galleria/pkg/auth"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
	"github.com/tmaselli/galleria/pkg/users"
)

func newTestRepositories(t *testing.T) (*auth.SessionRepository, users.UserRepository) {
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
	if err = sqlite.SeedRoles(connection); err != nil {
		t.Fatalf("seeding roles: %v", err)
	}
	t.Cleanup(func() { _ = connection.Close() })
	return auth.NewRepository(connection), users.NewRepository(connection)
}

func registerCurator(t *testing.T, repository users.UserRepository) *users.User {
	t.Helper()
	user, err := repository.RegisterStaff(users.AddStaffData{
		Alias:    "martac",
		Name:     "Marta Colombo",
		Email:    "marta@example.com",
		Password: "long enough secret",
		Role:     "curator",
	})
	if err != nil {
		t.Fatalf("registering curator: %v", err)
	}
	return user
}

func TestLoginIssuesSession(t *testing.T) {
	sessions, accounts := newTestRepositories(t)
	curator := registerCurator(t, accounts)

	session, err := sessions.Login("martac", "long enough secret")
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}
	if session.UserId != curator.Id {
		t.Fatalf("expected the session to belong to %q, got %q", curator.Id, session.UserId)
	}

	userId, err := sessions.GetSessionUser(session.Token)
	if err != nil {
		t.Fatalf("resolving session: %v", err)
	}
	if userId != curator.Id {
		t.Fatalf("expected the token to resolve to %q, got %q", curator.Id, userId)
	}
}

func TestLoginRefusesBadCredentials(t *testing.T) {
	sessions, accounts := newTestRepositories(t)
	registerCurator(t, accounts)

	if _, err := sessions.Login("martac", "wrong password"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if _, err := sessions.Login("nobody", "long enough secret"); !errors.Is(err, auth.ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials for an unknown alias, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	sessions, accounts := newTestRepositories(t)
	registerCurator(t, accounts)

	session, err := sessions.Login("martac", "long enough secret")
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}
	if err = sessions.Logout(session.Token); err != nil {
		t.Fatalf("logging out: %v", err)
	}
	if _, err = sessions.GetSessionUser(session.Token); !errors.Is(err, auth.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}
}

func TestPermissionsFollowRoles(t *testing.T) {
	sessions, accounts := newTestRepositories(t)
	curator := registerCurator(t, accounts)

	if !sessions.HasPermission(curator.Id, "manage_artworks") {
		t.Fatal("expected curators to manage artworks")
	}
	if sessions.HasPermission(curator.Id, "manage_users") {
		t.Fatal("expected user management to stay with administrators")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	sessions, accounts := newTestRepositories(t)
	curator := registerCurator(t, accounts)

	// a stale token, directly planted to avoid waiting out the session duration
	stale := "a4a76f35-02fa-40b7-92ea-21d86c32b6ab"
	past := time.Now().UTC().Add(-time.Hour)
	if _, err := sessions.Connection.Exec(`
		INSERT INTO sessions (token, user, created, expires) VALUES (?, ?, ?, ?)`,
		stale, curator.Id, past.Add(-time.Hour), past); err != nil {
		t.Fatalf("inserting stale session: %v", err)
	}

	purged, err := sessions.PurgeExpired()
	if err != nil {
		t.Fatalf("purging sessions: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected one purged session, got %d", purged)
	}
	if _, err = sessions.GetSessionUser(stale); !errors.Is(err, auth.ErrNoSession) {
		t.Fatalf("expected the stale token to be gone, got %v", err)
	}
}
