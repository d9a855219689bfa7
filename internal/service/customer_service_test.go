package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/repository/repositorytest"
	"github.com/spec-kit/support-desk/pkg/util"
)

func validCustomerInput() CustomerCreateInput {
	return CustomerCreateInput{
		FullName:  "Ana Diaz",
		Email:     "Ana@Example.com",
		Password:  "s3cret-pass",
		RoleType:  "customer",
		RoleID:    primitive.NewObjectID().Hex(),
		ContactNo: "+1 555 0100",
		Address:   "1 Main St",
		City:      "Springfield",
		State:     "IL",
		UserType:  "retail",
	}
}

func TestCreateCustomerHashesPasswordAndNormalizesEmail(t *testing.T) {
	store := repositorytest.NewCustomerStore()
	svc := NewCustomerService(store, bcrypt.MinCost)

	customer, err := svc.CreateCustomer(context.Background(), validCustomerInput())
	require.NoError(t, err)

	assert.False(t, customer.ID.IsZero())
	assert.Equal(t, "ana@example.com", customer.Email)
	assert.NotEqual(t, "s3cret-pass", customer.PasswordHash)
	assert.NoError(t, ComparePassword(customer.PasswordHash, "s3cret-pass"))
	assert.False(t, customer.IsWildCardLoginAccess)
	assert.Empty(t, customer.RM)
	assert.False(t, customer.CreatedAt.IsZero())
}

func TestCreateCustomerRejectsDuplicateEmail(t *testing.T) {
	svc := NewCustomerService(repositorytest.NewCustomerStore(), bcrypt.MinCost)
	_, err := svc.CreateCustomer(context.Background(), validCustomerInput())
	require.NoError(t, err)

	input := validCustomerInput()
	input.Email = "ANA@example.com"
	_, err = svc.CreateCustomer(context.Background(), input)
	assertCode(t, err, util.CodeDuplicateEmail)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomerService(repositorytest.NewCustomerStore(), bcrypt.MinCost)

	missing := validCustomerInput()
	missing.City = ""
	missing.Password = " "
	_, err := svc.CreateCustomer(context.Background(), missing)
	assertCode(t, err, util.CodeValidationFailed)
	assert.Contains(t, err.Error(), "password, city")

	badRole := validCustomerInput()
	badRole.RoleID = "admin"
	_, err = svc.CreateCustomer(context.Background(), badRole)
	assertCode(t, err, util.CodeInvalidID)

	badRM := validCustomerInput()
	badRM.RM = []string{primitive.NewObjectID().Hex(), "nope"}
	_, err = svc.CreateCustomer(context.Background(), badRM)
	assertCode(t, err, util.CodeInvalidID)
}

func TestGetCustomer(t *testing.T) {
	svc := NewCustomerService(repositorytest.NewCustomerStore(), bcrypt.MinCost)
	created, err := svc.CreateCustomer(context.Background(), validCustomerInput())
	require.NoError(t, err)

	got, err := svc.GetCustomer(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	_, err = svc.GetCustomer(context.Background(), primitive.NewObjectID().Hex())
	assertCode(t, err, util.CodeCustomerNotFound)

	_, err = svc.GetCustomer(context.Background(), "xyz")
	assertCode(t, err, util.CodeInvalidID)
}

func TestNewCustomerServiceClampsCost(t *testing.T) {
	svc := NewCustomerService(repositorytest.NewCustomerStore(), 99)
	assert.Equal(t, bcrypt.DefaultCost, svc.bcryptCost)
}
