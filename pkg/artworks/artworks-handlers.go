package artworks

import (
	"errors"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, ar *Store, sr auth.Repository, recorder *activity.Recorder) {
	engine.Get("/artworks", getCollection(ar), auth.Auth(sr))
	engine.Get("/artworks/:id", getArtwork(ar), auth.Auth(sr))
	engine.Post("/artworks", addArtwork(ar, recorder), auth.Auth(sr), auth.Require(sr, "manage_artworks"))
	engine.Put("/artworks/:id", updateArtwork(ar, recorder), auth.Auth(sr), auth.Require(sr, "manage_artworks"))
	engine.Delete("/artworks/:id", deleteArtwork(ar, recorder), auth.Auth(sr), auth.Require(sr, "manage_artworks"))

	engine.Get("/artworks/:id/creators", getCreators(ar), auth.Auth(sr))
	engine.Post("/artworks/:id/creators", linkCreator(ar, recorder), auth.Auth(sr), auth.Require(sr, "manage_artworks"))

	engine.Get("/locations", getLocations(ar), auth.Auth(sr))
	engine.Post("/locations", addLocation(ar, recorder), auth.Auth(sr), auth.Require(sr, "manage_artworks"))
}

func getCollection(ar *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if collection, err := ar.GetCollection(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, collection)
		}
	}
}

func getArtwork(ar *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		artwork, err := ar.GetById(rest.GetParam(request, "id"))
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artwork matches the given identifier")
		} else if err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, artwork)
		}
	}
}

func addArtwork(ar *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddArtworkData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		artwork, err := ar.Add(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "artworks", artwork.Id, artwork.Title, userId)
		JSON.Created(writer, artwork)
	}
}

func updateArtwork(ar *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var artworkId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateArtworkData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = ar.Update(artworkId, data); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artwork matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("update", "artworks", artworkId, data.Title, userId)
		JSON.NoContent(writer)
	}
}

func deleteArtwork(ar *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var artworkId = rest.GetParam(request, "id")

		if err := ar.Delete(artworkId); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No artwork matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("delete", "artworks", artworkId, "artwork removed", userId)
		JSON.NoContent(writer)
	}
}

func getCreators(ar *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if creators, err := ar.GetCreators(rest.GetParam(request, "id")); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, creators)
		}
	}
}

func linkCreator(ar *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var artworkId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[LinkCreatorData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = ar.LinkCreator(artworkId, data.ArtistId, data.Role); err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("link", "artwork_creators", artworkId, "creator "+data.ArtistId, userId)
		JSON.NoContent(writer)
	}
}

func getLocations(ar *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if locations, err := ar.GetLocations(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, locations)
		}
	}
}

func addLocation(ar *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddLocationData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		location, err := ar.AddLocation(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "locations", location.Id, location.Name, userId)
		JSON.Created(writer, location)
	}
}
