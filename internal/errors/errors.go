package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Error Handling Guidelines:
//
// For API client code (internal/api):
//   - Return *APIError for any non-2xx response, keeping the status code and
//     the decoded backend body so callers can branch on it
//   - Transport failures are returned wrapped with fmt.Errorf("context: %w", err)
//
// For services (internal/auth, internal/share, internal/session):
//   - Return wrapped errors and let the caller decide how to log and present
//   - A 401 is never special-cased here; the interceptor chain already logged out
//
// For the TUI and CLI:
//   - Use Classify() to turn any error into a toast message
//   - Log with logger.ErrorErr() once, at the point the error is presented

// standard error codes
const (
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
	CodeBadRequest      = "bad_request"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
)

// APIError is returned by the API client for any non-2xx response
type APIError struct {
	StatusCode int
	Response   ErrorResponse
	Body       string
}

func (e *APIError) Error() string {
	if msg := e.Response.Error; msg != "" {
		if e.Response.Message != "" {
			return fmt.Sprintf("%s: %s", msg, e.Response.Message)
		}
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, msg)
	}

	if e.Body != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// builds an APIError from a status code and raw response body
func NewAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		apiErr.Response = resp
	} else {
		apiErr.Body = strings.TrimSpace(string(body))
	}

	return apiErr
}

// returns the APIError in err's chain, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// reports whether err is a 401 response from the backend
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// reports whether err is a 404 response from the backend
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Is, As and New are re-exported so callers importing this package under
// its default name do not also need the standard library errors package.

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func New(text string) error {
	return stderrors.New(text)
}
