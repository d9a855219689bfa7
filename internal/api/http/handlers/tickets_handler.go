package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler serves the /tickets endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	input := service.TicketListInput{
		Page:   parseInt(c.Query("page"), service.DefaultPage),
		Limit:  parseInt(c.Query("limit"), service.DefaultLimit),
		Status: domain.TicketStatus(strings.TrimSpace(c.Query("status"))),
		Type:   domain.TicketType(strings.TrimSpace(c.Query("type"))),
	}
	page, err := h.service.ListTickets(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.JSON(util.Success(page, "Tickets retrieved successfully", fiber.StatusOK))
}

// SearchTickets GET /tickets/search.
func (h *TicketsHandler) SearchTickets(c *fiber.Ctx) error {
	page, err := h.service.SearchTickets(c.UserContext(),
		c.Query("searchText"),
		parseInt(c.Query("page"), service.DefaultPage),
		parseInt(c.Query("limit"), service.DefaultLimit),
	)
	if err != nil {
		return err
	}
	return c.JSON(util.Success(page, "Tickets retrieved successfully", fiber.StatusOK))
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}

	input := service.TicketCreateInput{
		TicketID:     req.TicketID,
		TicketType:   domain.TicketType(strings.TrimSpace(req.TicketType)),
		TicketStatus: domain.TicketStatus(strings.TrimSpace(req.TicketStatus)),
		CustomerID:   req.CustomerRef(),
		Messages:     make([]service.MessageInput, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		input.Messages = append(input.Messages, service.MessageInput{Comments: msg.Comments, CommentBy: msg.CommentBy})
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(util.Success(ticket, "Ticket created successfully", fiber.StatusCreated))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(util.Success(ticket, "Ticket retrieved successfully", fiber.StatusOK))
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}

	input := service.TicketUpdateInput{
		TicketID:   req.TicketID,
		CustomerID: req.CustomerRef(),
	}
	if req.TicketType != nil {
		typ := domain.TicketType(strings.TrimSpace(*req.TicketType))
		input.TicketType = &typ
	}
	if req.TicketStatus != nil {
		status := domain.TicketStatus(strings.TrimSpace(*req.TicketStatus))
		input.TicketStatus = &status
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(util.Success(ticket, "Ticket updated successfully", fiber.StatusOK))
}

// AddMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AddMessage(c *fiber.Ctx) error {
	var req dto.MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload")
	}
	ticket, err := h.service.AppendMessage(c.UserContext(), c.Params("id"), service.MessageInput{
		Comments:  req.Comments,
		CommentBy: req.CommentBy,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(util.Success(ticket, "Message added to ticket successfully", fiber.StatusCreated))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	ticket, err := h.service.DeleteTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(util.Success(ticket, "Ticket deleted successfully", fiber.StatusOK))
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
