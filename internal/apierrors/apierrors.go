package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error codes
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeTransport    = "TRANSPORT_ERROR"
	CodeBadPayload   = "BAD_PAYLOAD"
)

// Sentinel categories for errors.Is classification at call sites.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("resource conflict")
	ErrTransport    = errors.New("transport failure")
	ErrBadPayload   = errors.New("malformed server payload")
)

// APIError is the structured error body the server returns on non-2xx
// responses.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// StatusCode is the HTTP status the error arrived with; zero for
	// client-side errors.
	StatusCode int `json:"-"`

	category error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap exposes the sentinel category so errors.Is works against
// ErrValidation, ErrNotFound and friends.
func (e *APIError) Unwrap() error {
	return e.category
}

// New creates an APIError with an explicit code and category.
func New(code, message string, category error) *APIError {
	return &APIError{Code: code, Message: message, category: category}
}

// Validation creates a client-side precondition failure. It never reaches
// the wire; submission is blocked before any request is sent.
func Validation(message string) *APIError {
	return &APIError{Code: CodeInvalidInput, Message: message, category: ErrValidation}
}

// Transportf wraps a transport-level failure (connection refused, timeout,
// body read error).
func Transportf(format string, args ...interface{}) *APIError {
	return &APIError{
		Code:     CodeTransport,
		Message:  fmt.Sprintf(format, args...),
		category: ErrTransport,
	}
}

// BadPayload marks a response body that fits no accepted shape. Decoding
// fails loudly at the normalization boundary instead of defaulting to
// empty values.
func BadPayload(endpoint string, err error) *APIError {
	return &APIError{
		Code:     CodeBadPayload,
		Message:  fmt.Sprintf("unexpected response shape from %s: %v", endpoint, err),
		category: ErrBadPayload,
	}
}

// FromResponse classifies a non-2xx HTTP response. It prefers the
// structured {code, message, details} body and falls back to the status
// text when the body is not parseable.
func FromResponse(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr == nil && len(body) > 0 {
		_ = json.Unmarshal(body, apiErr)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		apiErr.category = ErrUnauthorized
		if apiErr.Code == "" {
			apiErr.Code = CodeUnauthorized
		}
	case resp.StatusCode == http.StatusForbidden:
		apiErr.category = ErrForbidden
		if apiErr.Code == "" {
			apiErr.Code = CodeForbidden
		}
	case resp.StatusCode == http.StatusNotFound:
		apiErr.category = ErrNotFound
		if apiErr.Code == "" {
			apiErr.Code = CodeNotFound
		}
	case resp.StatusCode == http.StatusConflict:
		apiErr.category = ErrConflict
		if apiErr.Code == "" {
			apiErr.Code = CodeConflict
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		apiErr.category = ErrValidation
		if apiErr.Code == "" {
			apiErr.Code = CodeInvalidInput
		}
	default:
		apiErr.category = ErrTransport
		if apiErr.Code == "" {
			apiErr.Code = CodeInternal
		}
	}

	return apiErr
}
