package exhibitions

import (
	"errors"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, es *Store, sr auth.Repository, recorder *activity.Recorder) {
	// the exhibition catalogue is public, like the museum's website listing
	engine.Get("/exhibitions", getExhibitions(es))
	engine.Get("/exhibitions/:id", getExhibition(es))
	engine.Get("/exhibitions/:id/artworks", getExhibitionArtworks(es))

	engine.Post("/exhibitions", addExhibition(es, recorder), auth.Auth(sr), auth.Require(sr, "manage_exhibitions"))
	engine.Put("/exhibitions/:id", updateExhibition(es, recorder), auth.Auth(sr), auth.Require(sr, "manage_exhibitions"))
	engine.Delete("/exhibitions/:id", deleteExhibition(es, recorder), auth.Auth(sr), auth.Require(sr, "manage_exhibitions"))
	engine.Post("/exhibitions/:id/artworks", linkArtwork(es, recorder), auth.Auth(sr), auth.Require(sr, "manage_exhibitions"))
	engine.Delete("/exhibitions/:id/artworks/:artwork", unlinkArtwork(es, recorder), auth.Auth(sr), auth.Require(sr, "manage_exhibitions"))
}

func getExhibitions(es *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if all, err := es.GetAll(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, all)
		}
	}
}

func getExhibition(es *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		exhibition, err := es.GetById(rest.GetParam(request, "id"))
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No exhibition matches the given identifier")
		} else if err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, exhibition)
		}
	}
}

// getExhibitionArtworks serves the read-only artworks feed consumed by the public website.
func getExhibitionArtworks(es *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		artworks, err := es.GetArtworks(rest.GetParam(request, "id"))
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, struct {
			Artworks []ExhibitedArtwork
			Count    int
		}{artworks, len(artworks)})
	}
}

func addExhibition(es *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddExhibitionData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		exhibition, err := es.Add(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "exhibitions", exhibition.Id, exhibition.Title, userId)
		JSON.Created(writer, exhibition)
	}
}

func updateExhibition(es *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var exhibitionId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateExhibitionData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = es.Update(exhibitionId, data); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No exhibition matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("update", "exhibitions", exhibitionId, data.Title, userId)
		JSON.NoContent(writer)
	}
}

func deleteExhibition(es *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var exhibitionId = rest.GetParam(request, "id")

		if err := es.Delete(exhibitionId); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No exhibition matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("delete", "exhibitions", exhibitionId, "exhibition removed", userId)
		JSON.NoContent(writer)
	}
}

func linkArtwork(es *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var exhibitionId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[LinkArtworkData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		err = es.LinkArtwork(exhibitionId, data.ArtworkId)
		switch {
		case err == nil:
			var userId, _ = auth.GetUserId(request)
			recorder.Record("link", "exhibition_artworks", exhibitionId, "artwork "+data.ArtworkId, userId)
			JSON.NoContent(writer)
		case errors.Is(err, ErrAlreadyLinked):
			JSON.BadRequestWithMessage(writer, "The artwork is already part of the exhibition")
		case errors.Is(err, ErrBadArtwork):
			JSON.NotFound(writer, "No active artwork matches the given identifier")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func unlinkArtwork(es *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var exhibitionId = rest.GetParam(request, "id")
		var artworkId = rest.GetParam(request, "artwork")

		if err := es.UnlinkArtwork(exhibitionId, artworkId); errors.Is(err, ErrBadArtwork) {
			JSON.NotFound(writer, "The artwork isn't part of the exhibition")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("unlink", "exhibition_artworks", exhibitionId, "artwork "+artworkId, userId)
		JSON.NoContent(writer)
	}
}
