package errors

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
)

// error categories for classification
const (
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryAuth       = "auth"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryServer     = "server"
	CategoryUnknown    = "unknown"
)

// analyzes an error and returns its category and a user-facing message.
// fallback is used when nothing more specific than the category is known.
func Classify(err error, fallback string) Info {
	if err == nil {
		return Info{CategoryUnknown, ""}
	}

	if apiErr, ok := AsAPIError(err); ok {
		return classifyAPIError(apiErr, fallback)
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return Info{CategoryTimeout, "request timed out"}
	}

	if stderrors.Is(err, context.Canceled) {
		return Info{CategoryTimeout, "request canceled"}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return Info{CategoryTimeout, "request timed out"}
		}
		return Info{CategoryNetwork, "could not reach the server"}
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		return Info{CategoryTimeout, "request timed out"}
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "dial") ||
		strings.Contains(errMsg, "network") {
		return Info{CategoryNetwork, "could not reach the server"}
	}

	return Info{CategoryUnknown, ternary(fallback != "", fallback, err.Error())}
}

func classifyAPIError(apiErr *APIError, fallback string) Info {
	msg := backendMessage(apiErr)

	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return Info{CategoryAuth, ternary(msg != "", msg, "session expired, please sign in again")}

	case apiErr.StatusCode == http.StatusForbidden:
		return Info{CategoryAuth, ternary(msg != "", msg, "permission denied")}

	case apiErr.StatusCode == http.StatusNotFound:
		return Info{CategoryNotFound, ternary(msg != "", msg, "not found")}

	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return Info{CategoryValidation, ternary(msg != "", msg, ternary(fallback != "", fallback, "invalid request"))}

	default:
		return Info{CategoryServer, ternary(fallback != "", fallback, "the server returned an error")}
	}
}

// the backend puts human readable text in different fields per endpoint
func backendMessage(apiErr *APIError) string {
	switch {
	case apiErr.Response.Message != "":
		return apiErr.Response.Message
	case apiErr.Response.Error != "":
		return apiErr.Response.Error
	default:
		return apiErr.Response.Details
	}
}

// ternary helper for cleaner conditional assignment
func ternary(condition bool, trueVal, falseVal string) string {
	if condition {
		return trueVal
	}

	return falseVal
}
