package reports_test

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/tmaselli/galleria/pkg/auth"
	"github.com/tmaselli/galleria/pkg/reports"
	"github.com/tmaselli/galleria/pkg/rest"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
	"github.com/tmaselli/galleria/pkg/users"
)

func newTestServer(t *testing.T) (http.Handler, *auth.SessionRepository, users.UserRepository) {
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

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine, err := rest.New(rest.Config{Logger: logger})
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}

	sessions := auth.NewRepository(connection)
	reports.RegisterHandlers(engine, reports.NewStore(connection), sessions)
	return engine.Handler(), sessions, users.NewRepository(connection)
}

func sessionTokenFor(t *testing.T, sessions *auth.SessionRepository, accounts users.UserRepository, alias, name, role string) string {
	t.Helper()
	if _, err := accounts.RegisterStaff(users.AddStaffData{
		Alias:    alias,
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", alias),
		Password: "long enough secret",
		Role:     role,
	}); err != nil {
		t.Fatalf("registering %s: %v", role, err)
	}
	session, err := sessions.Login(alias, "long enough secret")
	if err != nil {
		t.Fatalf("logging in as %s: %v", alias, err)
	}
	return session.Token
}

func getReport(handler http.Handler, path, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestReportsRefuseAnonymousRequests(t *testing.T) {
	handler, _, _ := newTestServer(t)

	for _, path := range []string{"/reports/mediums", "/reports/acquisitions", "/reports/sales"} {
		if response := getReport(handler, path, ""); response.Code != http.StatusUnauthorized {
			t.Fatalf("expected %d for unauthenticated %s, got %d", http.StatusUnauthorized, path, response.Code)
		}
	}
}

func TestReportsServeAuthenticatedCurator(t *testing.T) {
	handler, sessions, accounts := newTestServer(t)
	token := sessionTokenFor(t, sessions, accounts, "ritas", "Rita Sanna", "curator")

	if response := getReport(handler, "/reports/mediums", token); response.Code != http.StatusOK {
		t.Fatalf("expected %d for curator session, got %d", http.StatusOK, response.Code)
	}
	if response := getReport(handler, "/reports/acquisitions/register.xlsx", token); response.Code != http.StatusOK {
		t.Fatalf("expected %d for register export, got %d", http.StatusOK, response.Code)
	}
}

func TestReportsForbidCashiers(t *testing.T) {
	handler, sessions, accounts := newTestServer(t)
	token := sessionTokenFor(t, sessions, accounts, "ginob", "Gino Baldi", "cashier")

	if response := getReport(handler, "/reports/sales", token); response.Code != http.StatusForbidden {
		t.Fatalf("expected %d for cashier session, got %d", http.StatusForbidden, response.Code)
	}
}
