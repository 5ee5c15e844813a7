package artists

import (
	"errors"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, as *Store, sr auth.Repository, recorder *activity.Recorder) {
	engine.Get("/artists", getArtists(as), auth.Auth(sr))
	engine.Get("/artists/:id", getArtist(as), auth.Auth(sr))
	engine.Post("/artists", addArtist(as, recorder), auth.Auth(sr), auth.Require(sr, "manage_artists"))
	engine.Put("/artists/:id", updateArtist(as, recorder), auth.Auth(sr), auth.Require(sr, "manage_artists"))
	engine.Delete("/artists/:id", deleteArtist(as, recorder), auth.Auth(sr), auth.Require(sr, "manage_artists"))
}

func getArtists(as *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if all, err := as.GetAll(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, all)
		}
	}
}

func getArtist(as *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		artist, err := as.GetById(rest.GetParam(request, "id"))
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artist matches the given identifier")
		} else if err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, artist)
		}
	}
}

func addArtist(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddArtistData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		artist, err := as.Add(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "artists", artist.Id, artist.FirstName+" "+artist.LastName, userId)
		JSON.Created(writer, artist)
	}
}

func updateArtist(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var artistId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateArtistData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = as.Update(artistId, data); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artist matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("update", "artists", artistId, "details edited", userId)
		JSON.NoContent(writer)
	}
}

func deleteArtist(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var artistId = rest.GetParam(request, "id")

		if err := as.Delete(artistId); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artist matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("delete", "artists", artistId, "artist removed", userId)
		JSON.NoContent(writer)
	}
}
