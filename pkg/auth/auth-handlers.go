package auth

import (
	"errors"
	"net/http"

	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, sr *SessionRepository) {
	engine.Post("/sessions", login(sr))
	engine.Delete("/sessions/current", logout(sr), Auth(sr))
}

func login(sr *SessionRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[LoginData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		session, err := sr.Login(data.Alias, data.Password)
		switch {
		case err == nil:
			JSON.Created(writer, session)
		case errors.Is(err, ErrBadCredentials):
			JSON.Unauthorised(writer)
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func logout(sr *SessionRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		token, err := parseBearer(request)
		if err != nil {
			JSON.BadRequest(writer)
			return
		}

		if err = sr.Logout(token); errors.Is(err, ErrNoSession) {
			JSON.NotFound(writer, "No active session matches the given token")
		} else if err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.NoContent(writer)
		}
	}
}
