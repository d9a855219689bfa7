package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/pkg/util"
)

// CustomersHandler serves the /customers endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), service.CustomerCreateInput{
		FullName:              req.FullName,
		Email:                 req.Email,
		Password:              req.Password,
		Gender:                req.Gender,
		RoleType:              req.RoleType,
		RoleID:                req.RoleID,
		ContactNo:             req.ContactNo,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		UserType:              req.UserType,
		RM:                    req.RM,
		IsWildCardLoginAccess: req.IsWildCardLoginAccess,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(util.Success(customer, "Customer created successfully", fiber.StatusCreated))
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(util.Success(customer, "Customer retrieved successfully", fiber.StatusOK))
}
