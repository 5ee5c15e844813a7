package users

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var nameRules = []validation.Rule{validation.Required, validation.Length(5, 50)}
var aliasRules = []validation.Rule{validation.Required, validation.Length(5, 16), is.UTFLetterNumeric}

// staffRoles lists the roles an administrator may hand out; `member` accounts register through
// the public route instead.
var staffRoles = []interface{}{"admin", "curator", "staff", "cashier"}

type User struct {
	Id      string
	Alias   string
	Name    string
	Email   string
	Role    string
	Created time.Time
	Updated time.Time
}

type AddStaffData struct {
	Alias    string
	Name     string
	Email    string
	Password string
	Role     string
}

func (data AddStaffData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, nameRules...),
		validation.Field(&data.Alias, aliasRules...),
		validation.Field(&data.Email, validation.Required, is.Email),
		validation.Field(&data.Password, validation.Required, validation.Length(8, 50)),
		validation.Field(&data.Role, validation.Required, validation.In(staffRoles...)),
	)
}

type AddMemberData struct {
	Alias    string
	Name     string
	Email    string
	Password string
}

func (data AddMemberData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, nameRules...),
		validation.Field(&data.Alias, aliasRules...),
		validation.Field(&data.Email, validation.Required, is.Email),
		validation.Field(&data.Password, validation.Required, validation.Length(8, 50)),
	)
}

type UpdateNameData struct {
	Name string
}

func (data UpdateNameData) Validate() error {
	return validation.ValidateStruct(&data, validation.Field(&data.Name, nameRules...))
}

type UpdateRoleData struct {
	Role string
}

func (data UpdateRoleData) Validate() error {
	return validation.ValidateStruct(&data, validation.Field(&data.Role, validation.Required, validation.In(staffRoles...)))
}

func ValidateUserAlias(alias string) error {
	return validation.Validate(alias, aliasRules...)
}
