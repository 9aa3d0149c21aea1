package models

import (
	"database/sql/driver"
)

type TicketStatus string

const (
	TicketAvailable TicketStatus = "AVAILABLE"
	TicketSelected  TicketStatus = "SELECTED"
	TicketReserved  TicketStatus = "RESERVED"
	TicketPaid      TicketStatus = "PAID"
)

func (self *TicketStatus) Scan(value interface{}) error {
	*self = TicketStatus(value.([]byte))
	return nil
}

func (self TicketStatus) Value() (driver.Value, error) {
	return string(self), nil
}

// Valid reports whether s is one of the four allocation states.
func (self TicketStatus) Valid() bool {
	switch self {
	case TicketAvailable, TicketSelected, TicketReserved, TicketPaid:
		return true
	}
	return false
}

// SoldByOnline marks tickets sold through the self-service flow, as opposed
// to a person's name when assigned by an administrator.
const SoldByOnline = "Online"

// NotesByAdmin tags administrator-authored notes so a buyer's deselect never
// erases them.
const NotesByAdmin = "admin"

// RaffleTicket is one numbered slot in the raffle. Ids are dense in [1,N] and
// a ticket is never destroyed; it cycles between the four statuses. Optional
// fields are pointers so a cleared value is written to the store as an
// explicit NULL rather than omitted.
type RaffleTicket struct {
	ID              int          `gorm:"primarykey" json:"id"`
	Status          TicketStatus `gorm:"type:varchar(16);not null" json:"status"`
	BuyerName       *string      `json:"buyerName,omitempty"`
	BuyerPhone      *string      `json:"buyerPhone,omitempty"`
	BuyerInstagram  *string      `json:"buyerInstagram,omitempty"`
	BuyerCity       *string      `json:"buyerCity,omitempty"`
	SoldBy          *string      `json:"soldBy,omitempty"`
	PaymentProofUrl *string      `json:"paymentProofUrl,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	NotesBy         *string      `json:"notesBy,omitempty"`

	// Unconfirmed marks an optimistic local write whose remote upsert has
	// not been acknowledged. Never persisted.
	Unconfirmed bool `gorm:"-" json:"unconfirmed,omitempty"`
}

// NewAvailableTicket synthesizes the fresh row used by inventory backfill.
func NewAvailableTicket(id int) RaffleTicket {
	return RaffleTicket{ID: id, Status: TicketAvailable}
}

// SoldByIs reports whether SoldBy is set and equals v.
func (self RaffleTicket) SoldByIs(v string) bool {
	return self.SoldBy != nil && *self.SoldBy == v
}

// HasAdminNotes reports whether the current note carries administrator
// provenance.
func (self RaffleTicket) HasAdminNotes() bool {
	return self.Notes != nil && self.NotesBy != nil && *self.NotesBy == NotesByAdmin
}
