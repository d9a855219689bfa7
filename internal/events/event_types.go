package events

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketMessageAdded  EventType = "ticket_message_added"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	TicketKey string    `json:"ticket_key"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketType   domain.TicketType   `json:"ticket_type"`
	TicketStatus domain.TicketStatus `json:"ticket_status"`
	UserID       string              `json:"user_id"`
	MessageCount int                 `json:"message_count"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string `json:"message_id"`
	CommentBy   string `json:"comment_by"`
	BodyPreview string `json:"body_preview"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketStatus domain.TicketStatus `json:"ticket_status"`
	MessageCount int                 `json:"message_count"`
}
