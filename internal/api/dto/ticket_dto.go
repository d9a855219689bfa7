package dto

// MessageRequest is one conversation entry in a request body.
type MessageRequest struct {
	Comments  string `json:"comments"`
	CommentBy string `json:"commentBy"`
}

// CreateTicketRequest payload. customerId is accepted as an alias of userId.
type CreateTicketRequest struct {
	TicketID     string           `json:"ticketId"`
	TicketType   string           `json:"ticketType"`
	TicketStatus string           `json:"ticketStatus"`
	UserID       string           `json:"userId"`
	CustomerID   string           `json:"customerId"`
	Messages     []MessageRequest `json:"messages"`
}

// CustomerRef returns userId, falling back to customerId.
func (r CreateTicketRequest) CustomerRef() string {
	if r.UserID != "" {
		return r.UserID
	}
	return r.CustomerID
}

// UpdateTicketRequest payload; absent fields are left unchanged.
type UpdateTicketRequest struct {
	TicketID     *string `json:"ticketId"`
	TicketType   *string `json:"ticketType"`
	TicketStatus *string `json:"ticketStatus"`
	UserID       *string `json:"userId"`
	CustomerID   *string `json:"customerId"`
}

// CustomerRef returns userId, falling back to customerId.
func (r UpdateTicketRequest) CustomerRef() *string {
	if r.UserID != nil {
		return r.UserID
	}
	return r.CustomerID
}
