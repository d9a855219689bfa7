package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock overrides time.Now, mainly for tests.
	Clock func() time.Time
}

// MessageInput is one conversation entry supplied by a caller.
type MessageInput struct {
	Comments  string
	CommentBy string
}

// TicketCreateInput describes ticket creation payload. Empty type and
// status fall back to their defaults.
type TicketCreateInput struct {
	TicketID     string
	TicketType   domain.TicketType
	TicketStatus domain.TicketStatus
	CustomerID   string
	Messages     []MessageInput
}

// TicketUpdateInput is a partial update; nil fields are left untouched.
type TicketUpdateInput struct {
	TicketID     *string
	TicketType   *domain.TicketType
	TicketStatus *domain.TicketStatus
	CustomerID   *string
}

// TicketListInput describes list filters and pagination. Empty status or
// type means no filter.
type TicketListInput struct {
	Page   int
	Limit  int
	Status domain.TicketStatus
	Type   domain.TicketType
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// CreateTicket validates and persists a new ticket. The unique index on
// ticketId decides duplicates, so concurrent creates cannot both succeed.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticketKey := strings.TrimSpace(input.TicketID)
	if ticketKey == "" {
		return nil, util.NewValidationError("ticketId is required")
	}

	ticketType := input.TicketType
	if ticketType == "" {
		ticketType = domain.TicketTypeGeneral
	}
	if !ticketType.Valid() {
		return nil, invalidTicketType(ticketType)
	}

	ticketStatus := input.TicketStatus
	if ticketStatus == "" {
		ticketStatus = domain.TicketStatusOpen
	}
	if !ticketStatus.Valid() {
		return nil, invalidTicketStatus(ticketStatus)
	}

	userID, err := parseCustomerRef(input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	messages := make([]domain.Message, 0, len(input.Messages))
	for _, in := range input.Messages {
		msg, err := newMessage(in, now)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	ticket := &domain.Ticket{
		TicketID:     ticketKey,
		TicketType:   ticketType,
		TicketStatus: ticketStatus,
		UserID:       userID,
		Messages:     messages,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.NewDuplicateTicket()
		}
		return nil, util.NewInternalError("Failed to create ticket", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID.Hex(),
		TicketKey: ticket.TicketID,
		Payload: events.TicketCreatedPayload{
			TicketType:   ticket.TicketType,
			TicketStatus: ticket.TicketStatus,
			UserID:       ticket.UserID.Hex(),
			MessageCount: len(ticket.Messages),
		},
	})
	return ticket, nil
}

// ListTickets returns one page of tickets, joined to their customer, plus
// the filtered total.
func (s *TicketService) ListTickets(ctx context.Context, input TicketListInput) (domain.TicketPage, error) {
	filter := repository.TicketFilter{}
	if input.Status != "" {
		if !input.Status.Valid() {
			return domain.TicketPage{}, invalidTicketStatus(input.Status)
		}
		status := input.Status
		filter.Status = &status
	}
	if input.Type != "" {
		if !input.Type.Valid() {
			return domain.TicketPage{}, invalidTicketType(input.Type)
		}
		typ := input.Type
		filter.Type = &typ
	}
	filter.Skip, filter.Limit = Paginate(input.Page, input.Limit)

	page, err := s.tickets.List(ctx, filter)
	if err != nil {
		return domain.TicketPage{}, util.NewInternalError("Failed to retrieve tickets", err)
	}
	return page, nil
}

// SearchTickets matches searchText case-insensitively against ticket
// fields, message bodies and the joined customer, newest first.
func (s *TicketService) SearchTickets(ctx context.Context, searchText string, page, limit int) (domain.TicketPage, error) {
	search := repository.TicketSearch{Text: strings.TrimSpace(searchText)}
	search.Skip, search.Limit = Paginate(page, limit)

	result, err := s.tickets.Search(ctx, search)
	if err != nil {
		return domain.TicketPage{}, util.NewInternalError("Failed to search tickets", err)
	}
	return result, nil
}

// GetTicket fetches a ticket by its store identifier.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	oid, err := parseTicketID(id)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, oid)
	if err != nil {
		return nil, ticketStoreError(id, "Failed to retrieve ticket", err)
	}
	return ticket, nil
}

// UpdateTicket merges the non-nil fields of input into the ticket. Any
// status may move to any other status.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	oid, err := parseTicketID(id)
	if err != nil {
		return nil, err
	}

	patch := repository.TicketPatch{UpdatedAt: s.timestamp()}
	if input.TicketID != nil {
		key := strings.TrimSpace(*input.TicketID)
		if key == "" {
			return nil, util.NewValidationError("ticketId must not be empty")
		}
		patch.TicketID = &key
	}
	if input.TicketType != nil {
		if !input.TicketType.Valid() {
			return nil, invalidTicketType(*input.TicketType)
		}
		patch.TicketType = input.TicketType
	}
	if input.TicketStatus != nil {
		if !input.TicketStatus.Valid() {
			return nil, invalidTicketStatus(*input.TicketStatus)
		}
		patch.TicketStatus = input.TicketStatus
	}
	if input.CustomerID != nil {
		userID, err := parseCustomerRef(*input.CustomerID)
		if err != nil {
			return nil, err
		}
		patch.UserID = &userID
	}

	ticket, err := s.tickets.Update(ctx, oid, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.NewDuplicateTicket()
		}
		return nil, ticketStoreError(id, "Failed to update ticket", err)
	}

	if patch.TicketStatus != nil {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventTicketStatusChanged,
			TicketID:  ticket.ID.Hex(),
			TicketKey: ticket.TicketID,
			Payload:   events.TicketStatusChangedPayload{NewStatus: ticket.TicketStatus},
		})
	}
	return ticket, nil
}

// AppendMessage atomically pushes one message onto the ticket thread.
func (s *TicketService) AppendMessage(ctx context.Context, id string, input MessageInput) (*domain.Ticket, error) {
	oid, err := parseTicketID(id)
	if err != nil {
		return nil, err
	}
	now := s.timestamp()
	msg, err := newMessage(input, now)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.AppendMessage(ctx, oid, msg, now)
	if err != nil {
		return nil, ticketStoreError(id, "Failed to add message to ticket", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketMessageAdded,
		TicketID:  ticket.ID.Hex(),
		TicketKey: ticket.TicketID,
		Payload: events.TicketMessageAddedPayload{
			MessageID:   msg.ID,
			CommentBy:   msg.CommentBy,
			BodyPreview: stringPreview(msg.Comments, 120),
		},
	})
	return ticket, nil
}

// DeleteTicket permanently removes a ticket and returns its last state.
func (s *TicketService) DeleteTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	oid, err := parseTicketID(id)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.Delete(ctx, oid)
	if err != nil {
		return nil, ticketStoreError(id, "Failed to delete ticket", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventTicketDeleted,
		TicketID:  ticket.ID.Hex(),
		TicketKey: ticket.TicketID,
		Payload: events.TicketDeletedPayload{
			TicketStatus: ticket.TicketStatus,
			MessageCount: len(ticket.Messages),
		},
	})
	return ticket, nil
}

// Paginate converts a 1-based page and a page size into skip/limit,
// substituting defaults for non-positive values and capping the size.
// Pages past the int64 range are clamped so skip+size never overflows.
func Paginate(page, limit int) (skip, size int64) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	size = int64(limit)
	offset := int64(page) - 1
	if maxOffset := (math.MaxInt64 - size) / size; offset > maxOffset {
		offset = maxOffset
	}
	return offset * size, size
}

// timestamp is the service clock at the precision MongoDB stores.
func (s *TicketService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func parseTicketID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, util.NewInvalidID("ticket")
	}
	return oid, nil
}

func parseCustomerRef(id string) (primitive.ObjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return primitive.NilObjectID, util.NewValidationError("customerId is required")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, util.NewInvalidID("customer")
	}
	return oid, nil
}

func newMessage(in MessageInput, at time.Time) (domain.Message, error) {
	comments := strings.TrimSpace(in.Comments)
	commentBy := strings.TrimSpace(in.CommentBy)
	if comments == "" || commentBy == "" {
		return domain.Message{}, util.NewValidationError("comments and commentBy are required")
	}
	return domain.Message{
		ID:        uuid.NewString(),
		Comments:  comments,
		CommentBy: commentBy,
		CreatedAt: at,
	}, nil
}

func ticketStoreError(id, message string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return util.NewTicketNotFound(id)
	}
	return util.NewInternalError(message, err)
}

func invalidTicketType(t domain.TicketType) error {
	return util.NewValidationError("invalid ticketType " + string(t))
}

func invalidTicketStatus(s domain.TicketStatus) error {
	return util.NewValidationError("invalid ticketStatus " + string(s))
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.timestamp()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

// stringPreview shortens body to at most max runes.
func stringPreview(body string, max int) string {
	runes := []rune(strings.TrimSpace(body))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
