package common

import (
	"errors"
	"testing"

	"rifa/src/models"
	"rifa/src/types"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestSelectTicket(t *testing.T) {
	ticket := models.NewAvailableTicket(7)

	selected, err := SelectTicket(ticket)
	assert.Nil(t, err)
	assert.Equal(t, models.TicketSelected, selected.Status)
	assert.NotNil(t, selected.SoldBy)
	assert.Equal(t, models.SoldByOnline, *selected.SoldBy)

	_, err = SelectTicket(selected)
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))

	reserved := selected
	reserved.Status = models.TicketReserved
	_, err = SelectTicket(reserved)
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))

	paid := selected
	paid.Status = models.TicketPaid
	_, err = SelectTicket(paid)
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))
}

func TestDeselectTicketRestoresFields(t *testing.T) {
	ticket := models.NewAvailableTicket(3)
	selected, err := SelectTicket(ticket)
	assert.Nil(t, err)

	selected.BuyerName = strptr("Ana")
	selected.BuyerPhone = strptr("555-0101")
	selected.PaymentProofUrl = strptr("https://example.com/proof.jpg")

	reverted, err := DeselectTicket(selected)
	assert.Nil(t, err)
	assert.Equal(t, models.TicketAvailable, reverted.Status)
	assert.Nil(t, reverted.BuyerName)
	assert.Nil(t, reverted.BuyerPhone)
	assert.Nil(t, reverted.PaymentProofUrl)
	assert.Nil(t, reverted.SoldBy)
	assert.Nil(t, reverted.Notes)
}

func TestDeselectKeepsManualAttribution(t *testing.T) {
	// A seller attribution set by hand is not the online marker and must
	// survive the revert.
	ticket := models.RaffleTicket{ID: 9, Status: models.TicketSelected, SoldBy: strptr("Maria")}

	reverted, err := DeselectTicket(ticket)
	assert.Nil(t, err)
	assert.NotNil(t, reverted.SoldBy)
	assert.Equal(t, "Maria", *reverted.SoldBy)
}

func TestDeselectKeepsAdminNotes(t *testing.T) {
	notesBy := models.NotesByAdmin
	ticket := models.RaffleTicket{
		ID:      4,
		Status:  models.TicketSelected,
		SoldBy:  strptr(models.SoldByOnline),
		Notes:   strptr("flagged for review"),
		NotesBy: &notesBy,
	}

	reverted, err := DeselectTicket(ticket)
	assert.Nil(t, err)
	assert.NotNil(t, reverted.Notes)
	assert.Equal(t, "flagged for review", *reverted.Notes)
	assert.NotNil(t, reverted.NotesBy)
}

func TestDeselectRejectsOtherStates(t *testing.T) {
	for _, status := range []models.TicketStatus{models.TicketAvailable, models.TicketReserved, models.TicketPaid} {
		ticket := models.RaffleTicket{ID: 1, Status: status}
		_, err := DeselectTicket(ticket)
		assert.True(t, errors.Is(err, types.ErrInvalidTransition), "status %s should refuse deselect", status)
	}
}

func TestReserveTicket(t *testing.T) {
	buyer := types.BuyerDetails{Name: "Luis", Phone: "555-0199", Instagram: "@luis", City: "Monterrey"}

	ticket := models.NewAvailableTicket(11)
	reserved, err := ReserveTicket(ticket, buyer, "https://example.com/proof.jpg")
	assert.Nil(t, err)
	assert.Equal(t, models.TicketReserved, reserved.Status)
	assert.Equal(t, "Luis", *reserved.BuyerName)
	assert.Equal(t, "555-0199", *reserved.BuyerPhone)
	assert.Equal(t, "@luis", *reserved.BuyerInstagram)
	assert.Equal(t, "Monterrey", *reserved.BuyerCity)
	assert.Equal(t, models.SoldByOnline, *reserved.SoldBy)
	assert.Equal(t, "https://example.com/proof.jpg", *reserved.PaymentProofUrl)

	// SELECTED is also reservable; RESERVED and PAID are not.
	ticket.Status = models.TicketSelected
	_, err = ReserveTicket(ticket, buyer, "proof")
	assert.Nil(t, err)

	_, err = ReserveTicket(reserved, buyer, "proof")
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))
}

func TestReserveTicketOmitsEmptyOptionalFields(t *testing.T) {
	buyer := types.BuyerDetails{Name: "Luis", Phone: "555-0199"}
	reserved, err := ReserveTicket(models.NewAvailableTicket(2), buyer, "proof")
	assert.Nil(t, err)
	assert.Nil(t, reserved.BuyerInstagram)
	assert.Nil(t, reserved.BuyerCity)
}

func TestReserveBatchExcludesTakenTickets(t *testing.T) {
	buyer := types.BuyerDetails{Name: "Luis", Phone: "555-0199"}
	tickets := []models.RaffleTicket{
		{ID: 4, Status: models.TicketSelected},
		{ID: 5, Status: models.TicketPaid},
		{ID: 6, Status: models.TicketAvailable},
	}

	reserved, excluded := ReserveBatch(tickets, buyer, "proof")
	assert.Len(t, reserved, 2)
	assert.Equal(t, []int{5}, excluded)
	for _, r := range reserved {
		assert.Equal(t, models.TicketReserved, r.Status)
	}
}

func TestConfirmPayment(t *testing.T) {
	ticket := models.RaffleTicket{ID: 8, Status: models.TicketReserved, BuyerName: strptr("Ana")}

	paid, err := ConfirmPayment(ticket, "")
	assert.Nil(t, err)
	assert.Equal(t, models.TicketPaid, paid.Status)
	assert.Equal(t, DefaultConfirmRemark, *paid.Notes)
	assert.Equal(t, models.NotesByAdmin, *paid.NotesBy)
	assert.Equal(t, "Ana", *paid.BuyerName)

	paid2, err := ConfirmPayment(ticket, "transfer verified")
	assert.Nil(t, err)
	assert.Equal(t, "transfer verified", *paid2.Notes)

	_, err = ConfirmPayment(paid, "again")
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))
}

func TestRejectPaymentRequiresRemark(t *testing.T) {
	ticket := models.RaffleTicket{ID: 8, Status: models.TicketReserved, BuyerName: strptr("Ana")}

	_, err := RejectPayment(ticket, "", false)
	assert.True(t, errors.Is(err, types.ErrRemarkRequired))

	rejected, err := RejectPayment(ticket, "", true)
	assert.Nil(t, err)
	assert.Equal(t, models.TicketAvailable, rejected.Status)
	assert.Equal(t, DefaultRejectRemark, *rejected.Notes)
	assert.Nil(t, rejected.BuyerName)
}

func TestRejectPaymentPrefixesRemark(t *testing.T) {
	ticket := models.RaffleTicket{
		ID:              8,
		Status:          models.TicketReserved,
		BuyerName:       strptr("Ana"),
		SoldBy:          strptr(models.SoldByOnline),
		PaymentProofUrl: strptr("proof"),
	}

	rejected, err := RejectPayment(ticket, "illegible receipt", false)
	assert.Nil(t, err)
	assert.Equal(t, RejectRemarkPrefix+"illegible receipt", *rejected.Notes)
	assert.Equal(t, models.NotesByAdmin, *rejected.NotesBy)
	assert.Nil(t, rejected.SoldBy)
	assert.Nil(t, rejected.PaymentProofUrl)
}

func TestRejectKeepsManualAttribution(t *testing.T) {
	ticket := models.RaffleTicket{ID: 8, Status: models.TicketReserved, SoldBy: strptr("Maria")}

	rejected, err := RejectPayment(ticket, "wrong amount", false)
	assert.Nil(t, err)
	assert.Equal(t, "Maria", *rejected.SoldBy)
}

func TestEditTicket(t *testing.T) {
	ticket := models.RaffleTicket{ID: 2, Status: models.TicketReserved, BuyerName: strptr("Ana"), BuyerPhone: strptr("555")}

	status := string(models.TicketPaid)
	edited, err := EditTicket(ticket, types.EditTicketRequestBody{
		Status:    &status,
		BuyerName: strptr("Ana Maria"),
		Notes:     strptr("paid in cash"),
	})
	assert.Nil(t, err)
	assert.Equal(t, models.TicketPaid, edited.Status)
	assert.Equal(t, "Ana Maria", *edited.BuyerName)
	// Untouched fields survive the patch.
	assert.Equal(t, "555", *edited.BuyerPhone)
	assert.Equal(t, "paid in cash", *edited.Notes)
	assert.Equal(t, models.NotesByAdmin, *edited.NotesBy)

	// Empty string clears.
	cleared, err := EditTicket(edited, types.EditTicketRequestBody{BuyerName: strptr("")})
	assert.Nil(t, err)
	assert.Nil(t, cleared.BuyerName)

	bad := "INVALID"
	_, err = EditTicket(ticket, types.EditTicketRequestBody{Status: &bad})
	assert.NotNil(t, err)
}
