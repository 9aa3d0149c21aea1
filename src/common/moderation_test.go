package common

import (
	"context"
	"errors"
	"testing"

	"rifa/src/models"
	"rifa/src/types"

	"github.com/stretchr/testify/assert"
)

func TestModerationConfirm(t *testing.T) {
	mock := newMockDB(t)
	expectUpsert(mock, 3)

	inv := NewInventory(5)
	inv.replaceView(inv.syntheticInventory())
	inv.apply([]models.RaffleTicket{{ID: 3, Status: models.TicketReserved, BuyerName: strptr("Ana")}})

	mod := NewModeration(inv)
	ticket, err := mod.Confirm(context.Background(), 3, "")
	assert.Nil(t, err)
	assert.Equal(t, models.TicketPaid, ticket.Status)
	assert.Equal(t, DefaultConfirmRemark, *ticket.Notes)

	got, _ := inv.Get(3)
	assert.Equal(t, models.TicketPaid, got.Status)

	// Confirming twice is refused and leaves the row untouched.
	_, err = mod.Confirm(context.Background(), 3, "")
	assert.True(t, errors.Is(err, types.ErrInvalidTransition))
}

func TestModerationReject(t *testing.T) {
	mock := newMockDB(t)
	expectUpsert(mock, 3)

	inv := NewInventory(5)
	inv.replaceView(inv.syntheticInventory())
	inv.apply([]models.RaffleTicket{{ID: 3, Status: models.TicketReserved, BuyerName: strptr("Ana"), SoldBy: strptr(models.SoldByOnline)}})

	mod := NewModeration(inv)

	_, err := mod.Reject(context.Background(), 3, "", false)
	assert.True(t, errors.Is(err, types.ErrRemarkRequired))

	ticket, err := mod.Reject(context.Background(), 3, "blurry photo", false)
	assert.Nil(t, err)
	assert.Equal(t, models.TicketAvailable, ticket.Status)
	assert.Equal(t, RejectRemarkPrefix+"blurry photo", *ticket.Notes)
	assert.Nil(t, ticket.BuyerName)
}

func TestModerationEdit(t *testing.T) {
	mock := newMockDB(t)
	expectUpsert(mock, 2)

	inv := NewInventory(5)
	inv.replaceView(inv.syntheticInventory())

	mod := NewModeration(inv)
	status := string(models.TicketPaid)
	ticket, err := mod.Edit(context.Background(), 2, types.EditTicketRequestBody{
		Status:    &status,
		BuyerName: strptr("Maria"),
		SoldBy:    strptr("Maria"),
	})
	assert.Nil(t, err)
	assert.Equal(t, models.TicketPaid, ticket.Status)
	assert.Equal(t, "Maria", *ticket.SoldBy)

	got, _ := inv.Get(2)
	assert.Equal(t, models.TicketPaid, got.Status)

	_, err = mod.Edit(context.Background(), 99, types.EditTicketRequestBody{})
	assert.True(t, errors.Is(err, types.ErrTicketOutOfRange))
}

func TestTicketFilter(t *testing.T) {
	tickets := []models.RaffleTicket{
		{ID: 1, Status: models.TicketAvailable},
		{ID: 12, Status: models.TicketReserved, BuyerName: strptr("Ana Lopez"), BuyerCity: strptr("Monterrey")},
		{ID: 25, Status: models.TicketPaid, BuyerName: strptr("Luis"), SoldBy: strptr("Maria")},
	}

	byStatus := FilterTickets(tickets, TicketFilter{Status: models.TicketReserved})
	assert.Len(t, byStatus, 1)
	assert.Equal(t, 12, byStatus[0].ID)

	byName := FilterTickets(tickets, TicketFilter{Search: "lopez"})
	assert.Len(t, byName, 1)

	byID := FilterTickets(tickets, TicketFilter{Search: "25"})
	assert.Len(t, byID, 1)
	assert.Equal(t, 25, byID[0].ID)

	bySeller := FilterTickets(tickets, TicketFilter{Search: "maria"})
	assert.Len(t, bySeller, 1)

	both := FilterTickets(tickets, TicketFilter{Status: models.TicketPaid, Search: "ana"})
	assert.Empty(t, both)
}

func TestSummarize(t *testing.T) {
	tickets := []models.RaffleTicket{
		{ID: 1, Status: models.TicketAvailable},
		{ID: 2, Status: models.TicketSelected},
		{ID: 3, Status: models.TicketReserved},
		{ID: 4, Status: models.TicketPaid},
		{ID: 5, Status: models.TicketPaid},
	}

	summary := Summarize(tickets, 500)
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Available)
	assert.Equal(t, 1, summary.Selected)
	assert.Equal(t, 1, summary.Reserved)
	assert.Equal(t, 2, summary.Paid)
	assert.Equal(t, 3, summary.SoldOrReserved)
	assert.Equal(t, 60, summary.Progress)
	assert.Equal(t, 1000, summary.Revenue)

	empty := Summarize(nil, 500)
	assert.Equal(t, 0, empty.Progress)
}
