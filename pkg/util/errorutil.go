package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced in the envelope errors field.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidID        = "INVALID_ID"
	CodeTicketNotFound   = "TICKET_NOT_FOUND"
	CodeCustomerNotFound = "CUSTOMER_NOT_FOUND"
	CodeDuplicateTicket  = "DUPLICATE_TICKET"
	CodeDuplicateEmail   = "DUPLICATE_EMAIL"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Detail returns what goes into the envelope errors field: the code for
// domain errors, the underlying cause for internal ones.
func (e *DomainError) Detail() string {
	if e.Code == CodeInternal && e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest)
}

func NewInvalidID(resource string) error {
	return NewDomainError(CodeInvalidID, fmt.Sprintf("Invalid %s ID format", resource), http.StatusBadRequest)
}

func NewTicketNotFound(id string) error {
	return NewDomainError(CodeTicketNotFound, fmt.Sprintf("Ticket with ID %s not found", id), http.StatusNotFound)
}

func NewCustomerNotFound(id string) error {
	return NewDomainError(CodeCustomerNotFound, fmt.Sprintf("Customer with ID %s not found", id), http.StatusNotFound)
}

func NewDuplicateTicket() error {
	return NewDomainError(CodeDuplicateTicket, "Ticket with this ID already exists", http.StatusConflict)
}

func NewDuplicateEmail() error {
	return NewDomainError(CodeDuplicateEmail, "Customer with this email already exists", http.StatusConflict)
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "Too many requests", http.StatusTooManyRequests)
}

// NewInternalError wraps an unexpected failure; message is the operator
// facing summary such as "Failed to create ticket".
func NewInternalError(message string, err error) error {
	if message == "" {
		message = "internal server error"
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError carrying code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
