package users

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetAll() ([]User, error)
	RegisterStaff(data AddStaffData) (*User, error)
	RegisterMember(data AddMemberData) (*User, error)
	ExistsUserId(id string) bool
	ExistsUserAlias(alias string) bool
	GetUserById(id string) (user User, err error)
	GetUserByAlias(alias string) (user User, err error)
	UpdateName(userId string, newName string) error
	UpdateRole(userId string, newRole string) error
	Delete(userId string) error
}

type userRepository struct {
	Connection *sql.DB
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrAliasTaken = errors.New("alias or email is already taken")
)

func NewRepository(connection *sql.DB) UserRepository {
	return &userRepository{connection}
}

func (ur *userRepository) GetAll() (users []User, err error) {
	rows, err := ur.Connection.Query(`
		SELECT id, name, alias, email, role, created, updated FROM users WHERE deleted = FALSE`)
	if err != nil {
		return nil, err
	}

	users = make([]User, 0)
	for rows.Next() {
		var user User
		// return partial results in case of errors
		if err = rows.Scan(&user.Id, &user.Name, &user.Alias, &user.Email, &user.Role,
			&user.Created, &user.Updated); err != nil {
			return users, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return users, err
	}
	return users, rows.Close()
}

func (ur *userRepository) ExistsUserId(id string) (exists bool) {
	// will return false in the absence of positive results
	err := ur.Connection.QueryRow("SELECT TRUE FROM users WHERE id = ? AND deleted = FALSE", id).Scan(&exists)
	return err == nil && exists
}

func (ur *userRepository) ExistsUserAlias(alias string) (exists bool) {
	err := ur.Connection.QueryRow("SELECT TRUE FROM users WHERE alias = ? AND deleted = FALSE", alias).Scan(&exists)
	return err == nil && exists
}

// GetUserByAlias either returns a user matching the alias, or an error (along with an ignorable empty struct).
func (ur *userRepository) GetUserByAlias(alias string) (user User, err error) {
	err = ur.Connection.QueryRow(`
		SELECT id, name, alias, email, role, created, updated FROM users WHERE alias = ? AND deleted = FALSE`,
		alias).Scan(&user.Id, &user.Name, &user.Alias, &user.Email, &user.Role, &user.Created, &user.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (ur *userRepository) GetUserById(id string) (user User, err error) {
	err = ur.Connection.QueryRow(`
		SELECT id, name, alias, email, role, created, updated FROM users WHERE id = ? AND deleted = FALSE`,
		id).Scan(&user.Id, &user.Name, &user.Alias, &user.Email, &user.Role, &user.Created, &user.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// RegisterStaff creates a back-office account with the given role; administrators only.
func (ur *userRepository) RegisterStaff(data AddStaffData) (*User, error) {
	return ur.register(data.Alias, data.Name, data.Email, data.Password, data.Role)
}

// RegisterMember creates a museum member account, used by the public sign-up route.
func (ur *userRepository) RegisterMember(data AddMemberData) (*User, error) {
	return ur.register(data.Alias, data.Name, data.Email, data.Password, "member")
}

func (ur *userRepository) register(alias, name, email, password, role string) (*User, error) {

	// generate a new unique Id
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("couldn't generate a unique user id for %q: %w", alias, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("couldn't hash the password for %q: %w", alias, err)
	}

	var now = time.Now()

	_, err = ur.Connection.Exec(`
		INSERT INTO users(id, name, alias, email, password, role, created, updated)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), name, alias, email, string(hash), role, now, now)

	// detect alias and email uniqueness violations
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrAliasTaken
		}
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't add user %q: %w", alias, err)
	}

	return &User{
		Id:      id.String(),
		Alias:   alias,
		Name:    name,
		Email:   email,
		Role:    role,
		Created: now,
		Updated: now,
	}, nil
}

func (ur *userRepository) UpdateName(userId string, newName string) error {
	// avoid using DB triggers for possible future storage switches
	_, err := ur.Connection.Exec("UPDATE users SET name = ?, updated = ? WHERE id = ?", newName, time.Now(), userId)
	return err
}

func (ur *userRepository) UpdateRole(userId string, newRole string) error {
	result, err := ur.Connection.Exec(`
		UPDATE users SET role = ?, updated = ? WHERE id = ? AND deleted = FALSE`,
		newRole, time.Now(), userId)
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

// Delete soft-deletes the account, preserving its references in the activity and sales history.
func (ur *userRepository) Delete(userId string) error {
	result, err := ur.Connection.Exec(`
		UPDATE users SET deleted = TRUE, updated = ? WHERE id = ? AND deleted = FALSE`,
		time.Now(), userId)
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
