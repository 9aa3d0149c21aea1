package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rifa/src/models"
	"rifa/src/types"
)

// Moderation is the administrator's side of the workflow: verifying or
// rejecting reserved tickets and editing rows directly.
type Moderation struct {
	inv *Inventory
}

func NewModeration(inv *Inventory) *Moderation {
	return &Moderation{inv: inv}
}

// Confirm marks a reserved ticket as paid.
func (m *Moderation) Confirm(ctx context.Context, id int, remark string) (models.RaffleTicket, error) {
	t, err := m.inv.Get(id)
	if err != nil {
		return t, err
	}
	confirmed, err := ConfirmPayment(t, remark)
	if err != nil {
		return t, err
	}
	return confirmed, m.inv.Commit(ctx, confirmed)
}

// Reject releases a reserved ticket back to the pool. An empty remark must be
// explicitly confirmed by the administrator.
func (m *Moderation) Reject(ctx context.Context, id int, remark string, confirmedEmpty bool) (models.RaffleTicket, error) {
	t, err := m.inv.Get(id)
	if err != nil {
		return t, err
	}
	rejected, err := RejectPayment(t, remark, confirmedEmpty)
	if err != nil {
		return t, err
	}
	return rejected, m.inv.Commit(ctx, rejected)
}

// Edit overwrites ticket fields directly, bypassing transition checks.
func (m *Moderation) Edit(ctx context.Context, id int, patch types.EditTicketRequestBody) (models.RaffleTicket, error) {
	t, err := m.inv.Get(id)
	if err != nil {
		return t, err
	}
	edited, err := EditTicket(t, patch)
	if err != nil {
		return t, err
	}
	return edited, m.inv.Commit(ctx, edited)
}

// TicketFilter narrows the admin listing. Status filters exactly; Search is a
// case-insensitive substring match over the ticket number, buyer fields and
// seller attribution.
type TicketFilter struct {
	Status models.TicketStatus
	Search string
}

func (f TicketFilter) Matches(t models.RaffleTicket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	haystacks := []string{strconv.Itoa(t.ID)}
	for _, s := range []*string{t.BuyerName, t.BuyerPhone, t.BuyerInstagram, t.BuyerCity, t.SoldBy} {
		if s != nil {
			haystacks = append(haystacks, strings.ToLower(*s))
		}
	}
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

func FilterTickets(tickets []models.RaffleTicket, f TicketFilter) []models.RaffleTicket {
	out := make([]models.RaffleTicket, 0, len(tickets))
	for _, t := range tickets {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// ReportSummary aggregates the raffle's sales position.
type ReportSummary struct {
	Total          int `json:"total"`
	Available      int `json:"available"`
	Selected       int `json:"selected"`
	Reserved       int `json:"reserved"`
	Paid           int `json:"paid"`
	SoldOrReserved int `json:"sold_or_reserved"`
	Progress       int `json:"progress"`
	Revenue        int `json:"revenue"`
}

// Summarize counts tickets per status. Paid and reserved together measure
// sales progress; revenue counts confirmed payments only.
func Summarize(tickets []models.RaffleTicket, price int) ReportSummary {
	s := ReportSummary{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case models.TicketAvailable:
			s.Available++
		case models.TicketSelected:
			s.Selected++
		case models.TicketReserved:
			s.Reserved++
		case models.TicketPaid:
			s.Paid++
		}
	}
	s.SoldOrReserved = s.Paid + s.Reserved
	if s.Total > 0 {
		s.Progress = s.SoldOrReserved * 100 / s.Total
	}
	s.Revenue = s.Paid * price
	return s
}

func (s ReportSummary) String() string {
	return fmt.Sprintf("%d/%d sold or reserved (%d%%), revenue %d", s.SoldOrReserved, s.Total, s.Progress, s.Revenue)
}
