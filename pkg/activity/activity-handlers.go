package activity

import (
	"net/http"
	"strconv"

	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, recorder *Recorder, ar auth.Repository) {
	engine.Get("/activity", getActivity(recorder), auth.Auth(ar), auth.Require(ar, "view_activity"))
}

// getActivity serves the admin audit view; `limit` is optional and capped to avoid runaway reads.
func getActivity(recorder *Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		var limit = 50
		if parameter := request.URL.Query().Get("limit"); parameter != "" {
			parsed, err := strconv.Atoi(parameter)
			if err != nil || parsed < 1 || parsed > 500 {
				JSON.BadRequestWithMessage(writer, "limit must be a number between 1 and 500")
				return
			}
			limit = parsed
		}

		entries, err := recorder.GetRecent(limit)
		if err != nil {
			JSON.InternalServerError(writer, err)
			return
		}
		JSON.Ok(writer, entries)
	}
}
