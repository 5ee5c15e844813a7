package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type LoginData struct {
	Alias    string
	Password string
}

func (data LoginData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Alias, validation.Required, validation.Length(5, 16)),
		validation.Field(&data.Password, validation.Required, validation.Length(8, 50)),
	)
}
