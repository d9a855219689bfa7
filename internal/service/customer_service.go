package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/pkg/util"
)

// CustomerService manages the accounts tickets are raised for.
type CustomerService struct {
	customers  repository.CustomerRepository
	bcryptCost int
	now        func() time.Time
}

// CustomerCreateInput describes a new customer account.
type CustomerCreateInput struct {
	FullName              string
	Email                 string
	Password              string
	Gender                string
	RoleType              string
	RoleID                string
	ContactNo             string
	Address               string
	City                  string
	State                 string
	UserType              string
	RM                    []string
	IsWildCardLoginAccess bool
}

// NewCustomerService builds the service. A cost outside bcrypt's range
// falls back to bcrypt.DefaultCost.
func NewCustomerService(repo repository.CustomerRepository, bcryptCost int) *CustomerService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CustomerService{customers: repo, bcryptCost: bcryptCost, now: time.Now}
}

// CreateCustomer validates, hashes the password and stores the customer.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerCreateInput) (*domain.Customer, error) {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", input.FullName},
		{"email", input.Email},
		{"password", input.Password},
		{"roleType", input.RoleType},
		{"roleId", input.RoleID},
		{"contactNo", input.ContactNo},
		{"address", input.Address},
		{"city", input.City},
		{"state", input.State},
		{"userType", input.UserType},
	}
	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError(fmt.Sprintf("%s required", strings.Join(missing, ", ")))
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, util.NewValidationError("email is not valid")
	}

	roleID, err := primitive.ObjectIDFromHex(strings.TrimSpace(input.RoleID))
	if err != nil {
		return nil, util.NewInvalidID("role")
	}
	rm := make([]primitive.ObjectID, 0, len(input.RM))
	for _, raw := range input.RM {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
		if err != nil {
			return nil, util.NewInvalidID("relationship manager")
		}
		rm = append(rm, oid)
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError("Failed to create customer", err)
	}

	customer := &domain.Customer{
		FullName:              strings.TrimSpace(input.FullName),
		Email:                 email,
		PasswordHash:          hash,
		Gender:                strings.TrimSpace(input.Gender),
		RoleType:              strings.TrimSpace(input.RoleType),
		RoleID:                roleID,
		ContactNo:             strings.TrimSpace(input.ContactNo),
		Address:               strings.TrimSpace(input.Address),
		City:                  strings.TrimSpace(input.City),
		State:                 strings.TrimSpace(input.State),
		UserType:              strings.TrimSpace(input.UserType),
		RM:                    rm,
		IsWildCardLoginAccess: input.IsWildCardLoginAccess,
		CreatedAt:             s.now().UTC(),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.NewDuplicateEmail()
		}
		return nil, util.NewInternalError("Failed to create customer", err)
	}
	return customer, nil
}

// GetCustomer fetches a customer by identifier.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, util.NewInvalidID("customer")
	}
	customer, err := s.customers.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewCustomerNotFound(id)
		}
		return nil, util.NewInternalError("Failed to retrieve customer", err)
	}
	return customer, nil
}
