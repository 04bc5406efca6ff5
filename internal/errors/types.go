package errors

// ErrorResponse represents the backend's standardized error body
type ErrorResponse struct {
	Error   string `json:"error"`             // error code or message (e.g., "unauthorized", "Invalid credentials")
	Message string `json:"message,omitempty"` // user-friendly message
	Details string `json:"details,omitempty"` // optional details, e.g. validation failures
}

// Info is the classification of an error for presentation
type Info struct {
	Category string
	Message  string
}
