package types

import (
	"github.com/golang-jwt/jwt/v4"
)

type Claims struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// BuyerDetails is the form a buyer fills in when submitting a reservation.
type BuyerDetails struct {
	Name      string `json:"name" form:"name" binding:"required"`
	Phone     string `json:"phone" form:"phone" binding:"required,phone"`
	Instagram string `json:"instagram" form:"instagram"`
	City      string `json:"city" form:"city"`
}

type SessionURIParams struct {
	SessionID string `uri:"id" binding:"required,uuid"`
}

type TicketURIParams struct {
	TicketID int `uri:"id" binding:"required,min=1"`
}

type ToggleTicketRequestBody struct {
	TicketID int `json:"ticket_id" binding:"required,min=1"`
}

type ModerateTicketRequestBody struct {
	Remark         string `json:"remark,omitempty"`
	ConfirmedEmpty bool   `json:"confirmed_empty,omitempty"`
}

// EditTicketRequestBody is the administrator escape hatch: every field is
// optional and whatever is present overwrites the row without re-validating
// prior state. A null means "leave alone", an empty string means "clear".
type EditTicketRequestBody struct {
	Status          *string `json:"status,omitempty"`
	BuyerName       *string `json:"buyerName,omitempty"`
	BuyerPhone      *string `json:"buyerPhone,omitempty"`
	BuyerInstagram  *string `json:"buyerInstagram,omitempty"`
	BuyerCity       *string `json:"buyerCity,omitempty"`
	SoldBy          *string `json:"soldBy,omitempty"`
	PaymentProofUrl *string `json:"paymentProofUrl,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}
