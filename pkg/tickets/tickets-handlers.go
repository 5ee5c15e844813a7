package tickets

import (
	"errors"
	"net/http"

	"github.com/tmaselli/galleria/pkg/activity"
	"github.com/tmaselli/galleria/pkg/auth"
	JSON "github.com/tmaselli/galleria/pkg/json-utilities"
	"github.com/tmaselli/galleria/pkg/rest"
)

func RegisterHandlers(engine rest.Engine, ts *Store, sr auth.Repository, recorder *activity.Recorder) {
	engine.Post("/tickets", issueTicket(ts, recorder), auth.Auth(sr), auth.Require(sr, "issue_tickets"))
	engine.Get("/exhibitions/:id/tickets", getExhibitionTickets(ts), auth.Auth(sr), auth.Require(sr, "issue_tickets"))
}

func issueTicket(ts *Store, recorder *activity.Recorder) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[IssueTicketData](request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		ticket, err := ts.Issue(data)
		switch {
		case err == nil:
			var userId, _ = auth.GetUserId(request)
			recorder.Record("issue", "tickets", ticket.Id, "admission for "+ticket.Visitor, userId)
			JSON.Created(writer, ticket)
		case errors.Is(err, ErrNoExhibition):
			JSON.NotFound(writer, "No exhibition matches the given identifier")
		case errors.Is(err, ErrNoMember):
			JSON.NotFound(writer, "No member matches the given alias")
		default:
			JSON.InternalServerError(writer, err)
		}
	}
}

func getExhibitionTickets(ts *Store) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if all, err := ts.GetByExhibition(rest.GetParam(request, "id")); err != nil {
			JSON.InternalServerError(writer, err)
		} else {
			JSON.Ok(writer, all)
		}
	}
}
