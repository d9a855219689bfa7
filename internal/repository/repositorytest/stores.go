// Package repositorytest provides in-memory repositories that mirror the
// MongoDB implementations closely enough for service and handler tests.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
)

// TicketStore is an in-memory repository.TicketRepository. Tickets are
// kept in insertion order, which matches ObjectID order.
type TicketStore struct {
	mu        sync.Mutex
	tickets   []domain.Ticket
	customers *CustomerStore

	// Err, when set, is returned by every method.
	Err error
}

// NewTicketStore returns an empty store that joins against customers
// (which may be nil).
func NewTicketStore(customers *CustomerStore) *TicketStore {
	return &TicketStore{customers: customers}
}

// Len returns the number of stored tickets.
func (s *TicketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

func (s *TicketStore) Create(_ context.Context, ticket *domain.Ticket) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tickets {
		if existing.TicketID == ticket.TicketID {
			return repository.ErrDuplicateKey
		}
	}
	ticket.ID = primitive.NewObjectID()
	stored := clone(*ticket)
	stored.Customer = nil
	s.tickets = append(s.tickets, stored)
	return nil
}

func (s *TicketStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	ticket := clone(s.tickets[idx])
	return &ticket, nil
}

func (s *TicketStore) List(_ context.Context, filter repository.TicketFilter) (domain.TicketPage, error) {
	if s.Err != nil {
		return domain.TicketPage{}, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []domain.Ticket
	for _, ticket := range s.tickets {
		if filter.Status != nil && ticket.TicketStatus != *filter.Status {
			continue
		}
		if filter.Type != nil && ticket.TicketType != *filter.Type {
			continue
		}
		matched = append(matched, s.joined(ticket))
	}
	return paginate(matched, filter.Skip, filter.Limit), nil
}

func (s *TicketStore) Search(_ context.Context, search repository.TicketSearch) (domain.TicketPage, error) {
	if s.Err != nil {
		return domain.TicketPage{}, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(search.Text))
	var matched []domain.Ticket
	for i := len(s.tickets) - 1; i >= 0; i-- {
		ticket := s.joined(s.tickets[i])
		if needle == "" || matchesText(ticket, needle) {
			matched = append(matched, ticket)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, search.Skip, search.Limit), nil
}

func (s *TicketStore) Update(_ context.Context, id primitive.ObjectID, patch repository.TicketPatch) (*domain.Ticket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	if patch.TicketID != nil {
		for i, other := range s.tickets {
			if i != idx && other.TicketID == *patch.TicketID {
				return nil, repository.ErrDuplicateKey
			}
		}
	}

	ticket := &s.tickets[idx]
	ticket.UpdatedAt = patch.UpdatedAt
	if patch.TicketID != nil {
		ticket.TicketID = *patch.TicketID
	}
	if patch.TicketType != nil {
		ticket.TicketType = *patch.TicketType
	}
	if patch.TicketStatus != nil {
		ticket.TicketStatus = *patch.TicketStatus
	}
	if patch.UserID != nil {
		ticket.UserID = *patch.UserID
	}
	out := clone(*ticket)
	return &out, nil
}

func (s *TicketStore) AppendMessage(_ context.Context, id primitive.ObjectID, msg domain.Message, updatedAt time.Time) (*domain.Ticket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	ticket := &s.tickets[idx]
	ticket.Messages = append(ticket.Messages, msg)
	ticket.UpdatedAt = updatedAt
	out := clone(*ticket)
	return &out, nil
}

func (s *TicketStore) Delete(_ context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, repository.ErrNotFound
	}
	removed := s.tickets[idx]
	s.tickets = append(s.tickets[:idx], s.tickets[idx+1:]...)
	return &removed, nil
}

func (s *TicketStore) indexOf(id primitive.ObjectID) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TicketStore) joined(ticket domain.Ticket) domain.Ticket {
	out := clone(ticket)
	if s.customers == nil {
		return out
	}
	if c, ok := s.customers.lookup(ticket.UserID); ok {
		out.Customer = &domain.CustomerSummary{ID: c.ID, FullName: c.FullName, Email: c.Email}
	}
	return out
}

func matchesText(ticket domain.Ticket, needle string) bool {
	fields := []string{ticket.TicketID, string(ticket.TicketType), string(ticket.TicketStatus)}
	for _, msg := range ticket.Messages {
		fields = append(fields, msg.Comments)
	}
	if ticket.Customer != nil {
		fields = append(fields, ticket.Customer.FullName, ticket.Customer.Email)
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func paginate(matched []domain.Ticket, skip, limit int64) domain.TicketPage {
	page := domain.TicketPage{Tickets: []domain.Ticket{}, Total: int64(len(matched))}
	if skip < 0 || skip >= int64(len(matched)) {
		return page
	}
	end := int64(len(matched))
	if limit > 0 && limit < end-skip {
		end = skip + limit
	}
	page.Tickets = append(page.Tickets, matched[skip:end]...)
	return page
}

func clone(ticket domain.Ticket) domain.Ticket {
	out := ticket
	out.Messages = append([]domain.Message{}, ticket.Messages...)
	if ticket.Customer != nil {
		c := *ticket.Customer
		out.Customer = &c
	}
	return out
}

// CustomerStore is an in-memory repository.CustomerRepository.
type CustomerStore struct {
	mu        sync.Mutex
	customers []domain.Customer

	// Err, when set, is returned by every method.
	Err error
}

// NewCustomerStore returns an empty store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{}
}

func (s *CustomerStore) Create(_ context.Context, customer *domain.Customer) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if existing.Email == customer.Email {
			return repository.ErrDuplicateKey
		}
	}
	customer.ID = primitive.NewObjectID()
	s.customers = append(s.customers, *customer)
	return nil
}

func (s *CustomerStore) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Customer, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.lookup(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

// Remove deletes a customer directly, leaving tickets that reference it.
func (s *CustomerStore) Remove(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return
		}
	}
}

func (s *CustomerStore) lookup(id primitive.ObjectID) (domain.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Customer{}, false
}

var (
	_ repository.TicketRepository   = (*TicketStore)(nil)
	_ repository.CustomerRepository = (*CustomerStore)(nil)
)
