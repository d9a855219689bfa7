package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every accepted status in declaration order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is one of the declared statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketType enumerates support queues.
type TicketType string

const (
	TicketTypeBilling   TicketType = "support/billing"
	TicketTypeTechnical TicketType = "support/technical"
	TicketTypeGeneral   TicketType = "support/general"
)

// TicketTypes lists every accepted type in declaration order.
var TicketTypes = []TicketType{
	TicketTypeBilling,
	TicketTypeTechnical,
	TicketTypeGeneral,
}

// Valid reports whether t is one of the declared types.
func (t TicketType) Valid() bool {
	for _, candidate := range TicketTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// Ticket is the aggregate for support requests. Messages are embedded and
// append-only.
type Ticket struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	TicketID     string             `json:"ticketId" bson:"ticketId"`
	TicketType   TicketType         `json:"ticketType" bson:"ticketType"`
	TicketStatus TicketStatus       `json:"ticketStatus" bson:"ticketStatus"`
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	Messages     []Message          `json:"messages" bson:"messages"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Customer is only populated by joined reads and is never persisted.
	Customer *CustomerSummary `json:"customer,omitempty" bson:"customer,omitempty"`
}

// TicketPage is one page of tickets plus the count of all matches.
type TicketPage struct {
	Tickets []Ticket `json:"tickets"`
	Total   int64    `json:"total"`
}
