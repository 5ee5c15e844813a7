package rest

import (
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/julienschmidt/httprouter"
)

// GetParam extracts a named route parameter from the request's context.
func GetParam(request *http.Request, name string) string {
	return httprouter.ParamsFromContext(request.Context()).ByName(name)
}

// MustGetNewUUID returns a new V4 UUID string, panicking on the vanishingly rare failure to
// gather entropy; callers would have no sensible recovery anyway.
func MustGetNewUUID() string {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	return id.String()
}
