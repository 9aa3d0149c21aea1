package common

import (
	"fmt"
	"rifa/src/models"
	"rifa/src/types"
)

// Default moderation remarks, used when the administrator supplies none.
const (
	DefaultConfirmRemark = "Payment confirmed."
	DefaultRejectRemark  = "Rejected: no reason given."
	RejectRemarkPrefix   = "Rejected: "
)

// SelectTicket moves an AVAILABLE ticket to SELECTED and attributes the sale
// to the online flow. Every other status refuses the transition.
func SelectTicket(t models.RaffleTicket) (models.RaffleTicket, error) {
	switch t.Status {
	case models.TicketAvailable:
		t.Status = models.TicketSelected
		soldBy := models.SoldByOnline
		t.SoldBy = &soldBy
		return t, nil
	case models.TicketSelected, models.TicketReserved, models.TicketPaid:
		return t, fmt.Errorf("%w: ticket %d is %s", types.ErrInvalidTransition, t.ID, t.Status)
	default:
		return t, fmt.Errorf("%w: ticket %d has unknown status %q", types.ErrInvalidTransition, t.ID, t.Status)
	}
}

// DeselectTicket reverts a SELECTED ticket to AVAILABLE, restoring the field
// set it had before selection: buyer fields and the proof reference are
// cleared, soldBy only when it was the online attribution, and notes only
// when they lack administrator provenance.
func DeselectTicket(t models.RaffleTicket) (models.RaffleTicket, error) {
	switch t.Status {
	case models.TicketSelected:
		t.Status = models.TicketAvailable
		clearBuyerFields(&t)
		t.PaymentProofUrl = nil
		if t.SoldByIs(models.SoldByOnline) {
			t.SoldBy = nil
		}
		if !t.HasAdminNotes() {
			t.Notes = nil
			t.NotesBy = nil
		}
		return t, nil
	case models.TicketAvailable, models.TicketReserved, models.TicketPaid:
		return t, fmt.Errorf("%w: ticket %d is %s, not SELECTED", types.ErrInvalidTransition, t.ID, t.Status)
	default:
		return t, fmt.Errorf("%w: ticket %d has unknown status %q", types.ErrInvalidTransition, t.ID, t.Status)
	}
}

// ReserveTicket moves an AVAILABLE or SELECTED ticket to RESERVED with the
// buyer's details and the uploaded proof reference attached.
func ReserveTicket(t models.RaffleTicket, buyer types.BuyerDetails, proofURL string) (models.RaffleTicket, error) {
	switch t.Status {
	case models.TicketAvailable, models.TicketSelected:
		t.Status = models.TicketReserved
		t.BuyerName = &buyer.Name
		t.BuyerPhone = &buyer.Phone
		t.BuyerInstagram = optional(buyer.Instagram)
		t.BuyerCity = optional(buyer.City)
		soldBy := models.SoldByOnline
		t.SoldBy = &soldBy
		t.PaymentProofUrl = &proofURL
		return t, nil
	case models.TicketReserved, models.TicketPaid:
		return t, fmt.Errorf("%w: ticket %d is %s", types.ErrInvalidTransition, t.ID, t.Status)
	default:
		return t, fmt.Errorf("%w: ticket %d has unknown status %q", types.ErrInvalidTransition, t.ID, t.Status)
	}
}

// ReserveBatch applies ReserveTicket to each ticket. Tickets whose current
// status refuses the transition are excluded and reported; the caller must
// re-derive its pending selection from the excluded set.
func ReserveBatch(tickets []models.RaffleTicket, buyer types.BuyerDetails, proofURL string) (reserved []models.RaffleTicket, excluded []int) {
	for _, t := range tickets {
		rt, err := ReserveTicket(t, buyer, proofURL)
		if err != nil {
			excluded = append(excluded, t.ID)
			continue
		}
		reserved = append(reserved, rt)
	}
	return reserved, excluded
}

// ConfirmPayment moves a RESERVED ticket to PAID with an administrator
// remark.
func ConfirmPayment(t models.RaffleTicket, remark string) (models.RaffleTicket, error) {
	switch t.Status {
	case models.TicketReserved:
		t.Status = models.TicketPaid
		if remark == "" {
			remark = DefaultConfirmRemark
		}
		notesBy := models.NotesByAdmin
		t.Notes = &remark
		t.NotesBy = &notesBy
		return t, nil
	case models.TicketAvailable, models.TicketSelected, models.TicketPaid:
		return t, fmt.Errorf("%w: ticket %d is %s, not RESERVED", types.ErrInvalidTransition, t.ID, t.Status)
	default:
		return t, fmt.Errorf("%w: ticket %d has unknown status %q", types.ErrInvalidTransition, t.ID, t.Status)
	}
}

// RejectPayment reverts a RESERVED ticket to AVAILABLE, clearing the buyer's
// claim. Policy requires a remark: an empty one must be explicitly confirmed
// and is replaced with the default rejection string.
func RejectPayment(t models.RaffleTicket, remark string, confirmedEmpty bool) (models.RaffleTicket, error) {
	switch t.Status {
	case models.TicketReserved:
		if remark == "" && !confirmedEmpty {
			return t, types.ErrRemarkRequired
		}
		t.Status = models.TicketAvailable
		clearBuyerFields(&t)
		t.PaymentProofUrl = nil
		if t.SoldByIs(models.SoldByOnline) {
			t.SoldBy = nil
		}
		notes := DefaultRejectRemark
		if remark != "" {
			notes = RejectRemarkPrefix + remark
		}
		notesBy := models.NotesByAdmin
		t.Notes = &notes
		t.NotesBy = &notesBy
		return t, nil
	case models.TicketAvailable, models.TicketSelected, models.TicketPaid:
		return t, fmt.Errorf("%w: ticket %d is %s, not RESERVED", types.ErrInvalidTransition, t.ID, t.Status)
	default:
		return t, fmt.Errorf("%w: ticket %d has unknown status %q", types.ErrInvalidTransition, t.ID, t.Status)
	}
}

// EditTicket is the moderation escape hatch: it overwrites whatever fields
// the patch carries without re-validating prior state. A nil patch field
// leaves the current value, an empty string clears it.
func EditTicket(t models.RaffleTicket, patch types.EditTicketRequestBody) (models.RaffleTicket, error) {
	if patch.Status != nil {
		status := models.TicketStatus(*patch.Status)
		if !status.Valid() {
			return t, fmt.Errorf("unknown status %q", *patch.Status)
		}
		t.Status = status
	}
	t.BuyerName = overwrite(t.BuyerName, patch.BuyerName)
	t.BuyerPhone = overwrite(t.BuyerPhone, patch.BuyerPhone)
	t.BuyerInstagram = overwrite(t.BuyerInstagram, patch.BuyerInstagram)
	t.BuyerCity = overwrite(t.BuyerCity, patch.BuyerCity)
	t.SoldBy = overwrite(t.SoldBy, patch.SoldBy)
	t.PaymentProofUrl = overwrite(t.PaymentProofUrl, patch.PaymentProofUrl)
	if patch.Notes != nil {
		t.Notes = optional(*patch.Notes)
		if t.Notes != nil {
			notesBy := models.NotesByAdmin
			t.NotesBy = &notesBy
		} else {
			t.NotesBy = nil
		}
	}
	return t, nil
}

func clearBuyerFields(t *models.RaffleTicket) {
	t.BuyerName = nil
	t.BuyerPhone = nil
	t.BuyerInstagram = nil
	t.BuyerCity = nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func overwrite(current, patch *string) *string {
	if patch == nil {
		return current
	}
	return optional(*patch)
}
