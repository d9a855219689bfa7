package util

import "net/http"

const defaultSuccessMessage = "Operation successful"

// Envelope is the uniform body returned by every endpoint.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Errors     string `json:"errors,omitempty"`
}

// Success wraps data in a successful envelope. Zero statusCode means 200.
func Success(data any, message string, statusCode int) Envelope {
	if message == "" {
		message = defaultSuccessMessage
	}
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return Envelope{Success: true, StatusCode: statusCode, Message: message, Data: data}
}

// Failure builds an error envelope. Zero statusCode means 400.
func Failure(message, detail string, statusCode int) Envelope {
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	return Envelope{Success: false, StatusCode: statusCode, Message: message, Errors: detail}
}

// FailureFrom renders err as an error envelope.
func FailureFrom(err error) Envelope {
	domainErr := ToDomainError(err)
	return Failure(domainErr.Message, domainErr.Detail(), domainErr.HTTPStatus)
}
