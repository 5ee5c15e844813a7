package users

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tmaselli/galleria/pkg/storage/sqlite"
)

func newTestRepository(t *testing.T) UserRepository {
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
	return NewRepository(connection)
}

func TestRegisterStaff(t *testing.T) {
	repository := newTestRepository(t)

	user, err := repository.RegisterStaff(AddStaffData{
		Alias:    "martac",
		Name:     "Marta Colombo",
		Email:    "marta@example.com",
		Password: "long enough secret",
		Role:     "curator",
	})
	if err != nil {
		t.Fatalf("registering staff: %v", err)
	}
	if user.Role != "curator" {
		t.Fatalf("unexpected role %q", user.Role)
	}
	if !repository.ExistsUserAlias("martac") {
		t.Fatal("expected the new alias to exist")
	}
}

func TestRegisterMemberForcesRole(t *testing.T) {
	repository := newTestRepository(t)

	member, err := repository.RegisterMember(AddMemberData{
		Alias:    "paolov",
		Name:     "Paolo Verdi",
		Email:    "paolo@example.com",
		Password: "long enough secret",
	})
	if err != nil {
		t.Fatalf("registering member: %v", err)
	}
	if member.Role != "member" {
		t.Fatalf("expected the public route to hand out the member role, got %q", member.Role)
	}
}

func TestRegisterDuplicateAlias(t *testing.T) {
	repository := newTestRepository(t)

	data := AddMemberData{Alias: "paolov", Name: "Paolo Verdi", Email: "paolo@example.com", Password: "long enough secret"}
	if _, err := repository.RegisterMember(data); err != nil {
		t.Fatalf("registering member: %v", err)
	}

	data.Email = "paolo.verdi@example.com"
	if _, err := repository.RegisterMember(data); !errors.Is(err, ErrAliasTaken) {
		t.Fatalf("expected ErrAliasTaken, got %v", err)
	}
}

func TestDeletedUsersDisappear(t *testing.T) {
	repository := newTestRepository(t)

	user, err := repository.RegisterMember(AddMemberData{
		Alias: "paolov", Name: "Paolo Verdi", Email: "paolo@example.com", Password: "long enough secret",
	})
	if err != nil {
		t.Fatalf("registering member: %v", err)
	}

	if err = repository.Delete(user.Id); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	if _, err = repository.GetUserById(user.Id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after deletion, got %v", err)
	}
	if repository.ExistsUserAlias("paolov") {
		t.Fatal("expected the deleted alias to be hidden")
	}
}

func TestStaffDataValidation(t *testing.T) {
	valid := AddStaffData{
		Alias: "martac", Name: "Marta Colombo", Email: "marta@example.com",
		Password: "long enough secret", Role: "curator",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid staff data, got %v", err)
	}

	invalidRole := valid
	invalidRole.Role = "member"
	if err := invalidRole.Validate(); err == nil {
		t.Fatal("expected the member role to be refused on the staff route")
	}

	shortAlias := valid
	shortAlias.Alias = "mc"
	if err := shortAlias.Validate(); err == nil {
		t.Fatal("expected a short alias to fail validation")
	}
}
