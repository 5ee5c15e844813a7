package users

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, ur UserRepository, sr auth.Repository, recorder *activity.Recorder) {
	engine.Get("/users", getUsers(ur), auth.Auth(sr), auth.Require(sr, "manage_users"))
	engine.Post("/users", addStaff(ur, recorder), auth.Auth(sr), auth.Require(sr, "manage_users"))
	engine.Put("/users/:id/role", updateRole(ur, recorder), auth.Auth(sr), auth.Require(sr, "manage_users"))
	engine.Delete("/users/:id", deleteUser(ur, recorder), auth.Auth(sr), auth.Require(sr, "manage_users"))

	// members sign themselves up, no authentication involved
	engine.Post("/members", addMember(ur, recorder))

	engine.Put("/profile/name", updateName(ur), auth.Auth(sr))
}

func getUsers(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var users, err = ur.GetAll()
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, users)
	}
}

func addStaff(ur UserRepository, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddStaffData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		newUser, err := ur.RegisterStaff(data)
		if errors.Is(err, ErrAliasTaken) {
			JSON.BadRequestWithMessage(writer, fmt.Sprintf("The alias or email of %q is already taken", data.Alias))
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var adminId, _ = auth.GetUserId(request)
		recorder.Record("create", "users", newUser.Id, fmt.Sprintf("staff account %q created", newUser.Alias), adminId)
		JSON.Created(writer, newUser)
	}
}

func addMember(ur UserRepository, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddMemberData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		newUser, err := ur.RegisterMember(data)
		if errors.Is(err, ErrAliasTaken) {
			JSON.BadRequestWithMessage(writer, fmt.Sprintf("The alias or email of %q is already taken", data.Alias))
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		recorder.Record("create", "users", newUser.Id, fmt.Sprintf("member %q registered", newUser.Alias), newUser.Id)
		JSON.Created(writer, newUser)
	}
}

func updateRole(ur UserRepository, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var userId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateRoleData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = ur.UpdateRole(userId, data.Role); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No user matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var adminId, _ = auth.GetUserId(request)
		recorder.Record("update", "users", userId, fmt.Sprintf("role changed to %q", data.Role), adminId)
		JSON.NoContent(writer)
	}
}

func deleteUser(ur UserRepository, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var userId = rest.GetParam(request, "id")
		var adminId, _ = auth.GetUserId(request)

		// refuse self-deletion, which would orphan the current session mid-request
		if userId == adminId {
			JSON.BadRequestWithMessage(writer, "Can't delete one's own account")
			return
		}

		if err := ur.Delete(userId); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No user matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		recorder.Record("delete", "users", userId, "account removed", adminId)
		JSON.NoContent(writer)
	}
}

func updateName(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var userId, _ = auth.GetUserId(request)

		data, err := JSON.DecodeValidate[UpdateNameData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = ur.UpdateName(userId, data.Name); err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.NoContent(writer)
	}
}
