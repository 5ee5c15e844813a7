package acquisitions

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, as *Store, sr auth.Repository, recorder *activity.Recorder) {
	// donation intake is the one public write surface; everything else requires staff permissions
	engine.Post("/donations", submitDonation(as, recorder))

	engine.Get("/donations/pending", getPending(as), auth.Auth(sr), auth.Require(sr, "review_donations"))
	engine.Post("/donations/:id/acceptance", acceptDonation(as, recorder), auth.Auth(sr), auth.Require(sr, "review_donations"))
	engine.Post("/donations/:id/rejection", rejectDonation(as, recorder), auth.Auth(sr), auth.Require(sr, "review_donations"))

	engine.Get("/acquisitions", getAcquisitions(as), auth.Auth(sr))
	engine.Get("/acquisitions/:id", getAcquisition(as), auth.Auth(sr))
	engine.Post("/acquisitions", addAcquisition(as, recorder), auth.Auth(sr), auth.Require(sr, "add_acquisition"))
	engine.Put("/acquisitions/:id", updateAcquisition(as, recorder), auth.Auth(sr), auth.Require(sr, "edit_acquisitions"))
	engine.Delete("/acquisitions/:id", deleteAcquisition(as, recorder), auth.Auth(sr), auth.Require(sr, "delete_acquisition"))
}

func submitDonation(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[DonationSubmission](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		donation, err := as.SubmitDonation(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		recorder.Record("submit", "acquisitions", donation.Id, fmt.Sprintf("donation proposed by %s", data.DonorName), "")
		JSON.Created(writer, donation)
	}
}

func getPending(as *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if pending, err := as.GetPending(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, pending)
		}
	}
}

func acceptDonation(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var acquisitionId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[ReviewData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		outcome, err := as.Accept(acquisitionId, data)
		switch {
		case err == nil:
			var userId, _ = auth.GetUserId(request)
			recorder.Record("accept", "acquisitions", acquisitionId,
				fmt.Sprintf("donation accepted as %q", data.Title), userId)
			JSON.Ok(writer, outcome)
		case errors.Is(err, ErrNotFound):
			JSON.NotFound(writer, "No donation matches the given identifier")
		case errors.Is(err, ErrNotPending):
			JSON.Conflict(writer, "The donation was already reviewed")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func rejectDonation(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var acquisitionId = rest.GetParam(request, "id")

		rejectedArtworkId, err := as.Reject(acquisitionId)
		switch {
		case err == nil:
			var userId, _ = auth.GetUserId(request)
			recorder.Record("reject", "acquisitions", acquisitionId, "donation rejected", userId)
			JSON.Ok(writer, struct {
				AcquisitionId     string
				RejectedArtworkId string `json:",omitempty"`
			}{acquisitionId, rejectedArtworkId})
		case errors.Is(err, ErrNotFound):
			JSON.NotFound(writer, "No donation matches the given identifier")
		case errors.Is(err, ErrNotPending):
			JSON.Conflict(writer, "The donation was already reviewed")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func getAcquisitions(as *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if all, err := as.GetAll(); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, all)
		}
	}
}

func getAcquisition(as *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		acquisition, err := as.GetById(rest.GetParam(request, "id"))
		if errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No acquisition matches the given identifier")
		} else if err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, acquisition)
		}
	}
}

func addAcquisition(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddAcquisitionData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		acquisition, err := as.Add(data)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("create", "acquisitions", acquisition.Id,
			fmt.Sprintf("direct entry, method %d", data.Method), userId)
		JSON.Created(writer, acquisition)
	}
}

func updateAcquisition(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var acquisitionId = rest.GetParam(request, "id")

		data, err := JSON.DecodeValidate[UpdateAcquisitionData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if err = as.Update(acquisitionId, data); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No acquisition matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("update", "acquisitions", acquisitionId, "record edited", userId)
		JSON.NoContent(writer)
	}
}

func deleteAcquisition(as *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var acquisitionId = rest.GetParam(request, "id")

		if err := as.Delete(acquisitionId); errors.Is(err, ErrNotFound) {
			JSON.NotFound(writer, "No acquisition matches the given identifier")
			return
		} else if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}

		var userId, _ = auth.GetUserId(request)
		recorder.Record("delete", "acquisitions", acquisitionId, "record removed", userId)
		JSON.NoContent(writer)
	}
}
