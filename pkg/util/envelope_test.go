package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessDefaults(t *testing.T) {
	env := Success(map[string]int{"n": 1}, "", 0)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "Operation successful", env.Message)
	assert.Empty(t, env.Errors)
}

func TestFailureJSONCarriesNullData(t *testing.T) {
	raw, err := json.Marshal(Failure("Ticket with this ID already exists", CodeDuplicateTicket, 0))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, float64(http.StatusBadRequest), decoded["statusCode"])
	assert.Contains(t, decoded, "data")
	assert.Nil(t, decoded["data"])
	assert.Equal(t, CodeDuplicateTicket, decoded["errors"])
}

func TestSuccessOmitsErrors(t *testing.T) {
	raw, err := json.Marshal(Success(nil, "ok", http.StatusCreated))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "errors")
}

func TestFailureFromDomainError(t *testing.T) {
	env := FailureFrom(NewTicketNotFound("abc"))
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	assert.Equal(t, "Ticket with ID abc not found", env.Message)
	assert.Equal(t, CodeTicketNotFound, env.Errors)
}

func TestFailureFromInternalCarriesCause(t *testing.T) {
	cause := errors.New("server selection timeout")
	env := FailureFrom(NewInternalError("Failed to retrieve tickets", cause))
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Equal(t, "Failed to retrieve tickets", env.Message)
	assert.Equal(t, "server selection timeout", env.Errors)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.Equal(t, "boom", domainErr.Detail())
}

func TestIsCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("update: %w", NewInvalidID("ticket"))
	assert.True(t, IsCode(err, CodeInvalidID))
	assert.False(t, IsCode(err, CodeTicketNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeInvalidID))
}
