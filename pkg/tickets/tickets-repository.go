package tickets

import (
	"database/sql"
	"errors"

	"github.com/tmaselli/galleria/pkg/ntime"
	"github.com/tmaselli/galleria/pkg/rest"
)

type TicketRepository interface {
	Issue(data IssueTicketData) (*Ticket, error)
	GetByExhibition(exhibitionId string) ([]Ticket, error)
}

type Store struct {
	Connection *sql.DB
}

var (
	ErrNoExhibition = errors.New("exhibition not found")
	ErrNoMember     = errors.New("member not found")
)

// Admission pricing; members pay half.
const (
	basePrice      = 15.0
	memberDiscount = 0.5
)

func NewStore(connection *sql.DB) *Store {
	return &Store{connection}
}

// Issue registers an admission for the given exhibition. Naming a member applies the member
// discount and records the visit against their account; the visitor name is optional then.
func (ts *Store) Issue(data IssueTicketData) (*Ticket, error) {

	var exists bool
	err := ts.Connection.QueryRow(`
		SELECT TRUE FROM exhibitions WHERE id = ? AND deleted = FALSE`,
		data.ExhibitionId).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoExhibition
	}
	if err != nil {
		return nil, err
	}

	var price = basePrice
	var memberId *string
	var visitor = data.Visitor

	if data.MemberAlias != "" {
		var id, name string
		err := ts.Connection.QueryRow(`
			SELECT id, name FROM users WHERE alias = ? AND role = 'member' AND deleted = FALSE`,
			data.MemberAlias).Scan(&id, &name)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoMember
		}
		if err != nil {
			return nil, err
		}
		memberId = &id
		price = basePrice * memberDiscount
		if visitor == "" {
			visitor = name
		}
	}

	var ticketId = rest.MustGetNewUUID()
	var issued = ntime.Now()
	if _, err := ts.Connection.Exec(`
		INSERT INTO tickets (id, exhibition, visitor, member, price, visit_date, issued)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ticketId, data.ExhibitionId, visitor, memberId, price, data.VisitDate, issued); err != nil {
		return nil, err
	}

	return &Ticket{
		Id:           ticketId,
		ExhibitionId: data.ExhibitionId,
		Visitor:      visitor,
		MemberId:     memberId,
		Price:        price,
		VisitDate:    data.VisitDate,
		Issued:       issued,
	}, nil
}

func (ts *Store) GetByExhibition(exhibitionId string) ([]Ticket, error) {
	rows, err := ts.Connection.Query(`
		SELECT id, exhibition, visitor, member, price, visit_date, issued
		FROM tickets WHERE exhibition = ? ORDER BY issued DESC`, exhibitionId)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = rows.Close()
	}()

	var all = make([]Ticket, 0)
	for rows.Next() {
		var ticket Ticket
		var member sql.NullString
		if err = rows.Scan(&ticket.Id, &ticket.ExhibitionId, &ticket.Visitor, &member,
			&ticket.Price, &ticket.VisitDate, &ticket.Issued); err != nil {
			return all, err
		}
		if member.Valid {
			ticket.MemberId = &member.String
		}
		all = append(all, ticket)
	}
	return all, rows.Err()
}
