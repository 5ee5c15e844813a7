package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const userIdKey = "userId"

// Auth ensures that requests carry a valid bearer session token, and stores the session's
// user id in the request context for downstream handlers.
func Auth(repository Repository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			var token, err = parseBearer(request)
			if err != nil {
				reportUnauthorised(w)
				return
			}

			// resolve the session into a user
			userId, err := repository.GetSessionUser(token)
			if err != nil {
				reportUnauthorised(w)
				return
			}

			// create a new context, stemming from the original one, adding the user's id for future reference
			next.ServeHTTP(w, request.WithContext(context.WithValue(request.Context(), userIdKey, userId)))
		})
	}
}

// Require gates a route behind a named permission; it must be registered after Auth, which
// provides the authenticated user. Missing permissions yield a 403 rather than a 404 since
// route names are public knowledge anyway.
func Require(repository Repository, permission string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, request *http.Request) {

			userId, err := GetUserId(request)
			if err != nil {
				reportUnauthorised(w)
				return
			}

			if !repository.HasPermission(userId, permission) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, request)
		})
	}
}

// parseBearer extracts the session token from the authorization header.
func parseBearer(request *http.Request) (string, error) {
	var header = request.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		var token = header[7:]
		if len(token) == 36 {
			return token, nil
		}
	}
	return "", errors.New("bad authorization header")
}

func GetUserId(request *http.Request) (string, error) {
	var id = request.Context().Value(userIdKey)
	// return an error to detect a possibly missing auth middleware
	if id == nil {
		return "", errors.New("missing user ID authorization header")
	}
	return id.(string), nil
}

func reportUnauthorised(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
}
