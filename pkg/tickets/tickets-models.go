package tickets

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tmaselli/galleria/pkg/ntime"
)

type Ticket struct {
	Id           string
	ExhibitionId string
	Visitor      string
	MemberId     *string
	Price        float64
	VisitDate    ntime.NTime
	Issued       ntime.NTime
}

type IssueTicketData struct {
	ExhibitionId string
	Visitor      string
	MemberAlias  string
	VisitDate    ntime.NTime
}

func (data IssueTicketData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.ExhibitionId, validation.Required, validation.Length(36, 36)),
		validation.Field(&data.Visitor, validation.Required.When(data.MemberAlias == ""), validation.Length(0, 100)),
		validation.Field(&data.VisitDate, validation.Required),
	)
}
