package apierrors

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// TestFromResponse_Classification verifies each status range maps to its
// sentinel category.
func TestFromResponse_Classification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		category error
		code     string
	}{
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, CodeUnauthorized},
		{"forbidden", http.StatusForbidden, ErrForbidden, CodeForbidden},
		{"not found", http.StatusNotFound, ErrNotFound, CodeNotFound},
		{"conflict", http.StatusConflict, ErrConflict, CodeConflict},
		{"other 4xx", http.StatusUnprocessableEntity, ErrValidation, CodeInvalidInput},
		{"server error", http.StatusInternalServerError, ErrTransport, CodeInternal},
		{"bad gateway", http.StatusBadGateway, ErrTransport, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromResponse(response(tt.status, ""))

			assert.ErrorIs(t, err, tt.category)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.NotEmpty(t, err.Message)
		})
	}
}

// TestFromResponse_PrefersStructuredBody verifies the server's own code
// and message win over the status-derived defaults.
func TestFromResponse_PrefersStructuredBody(t *testing.T) {
	body := `{"code":"TAG_IN_USE","message":"category has tasks","details":{"tasks":3}}`

	err := FromResponse(response(http.StatusConflict, body))

	assert.Equal(t, "TAG_IN_USE", err.Code)
	assert.Equal(t, "category has tasks", err.Message)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotNil(t, err.Details)
}

// TestFromResponse_UnparseableBodyFallsBack verifies a garbage body still
// yields a classified error.
func TestFromResponse_UnparseableBodyFallsBack(t *testing.T) {
	err := FromResponse(response(http.StatusNotFound, "<html>nope</html>"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusText(http.StatusNotFound), err.Message)
}

// TestValidation_IsClientSide verifies client-side precondition errors
// carry no HTTP status.
func TestValidation_IsClientSide(t *testing.T) {
	err := Validation("title is required")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, CodeInvalidInput, err.Code)
	assert.Zero(t, err.StatusCode)
}

// TestBadPayload verifies decode failures surface the endpoint and wrap
// the payload category.
func TestBadPayload(t *testing.T) {
	cause := errors.New("json: cannot unmarshal")

	err := BadPayload("/task", cause)

	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Contains(t, err.Message, "/task")
}

// TestErrorString verifies the code-prefixed rendering.
func TestErrorString(t *testing.T) {
	err := New("NOT_FOUND", "task not found", ErrNotFound)
	assert.Equal(t, "NOT_FOUND: task not found", err.Error())

	require.ErrorIs(t, Transportf("dial tcp: %s", "refused"), ErrTransport)
}
