package atlas

import (
	"errors"
	"fmt"
)

var (
	ErrMissingBaseURL  = errors.New("atlas: base URL is required")
	ErrRequestFailed   = errors.New("atlas: request failed")
	ErrDecodeResponse  = errors.New("atlas: failed to decode response")
	ErrUnauthorized    = errors.New("atlas: unauthorized")
	ErrBackendRejected = errors.New("atlas: backend rejected request")
)

// APIError carries the HTTP status and the backend's human-readable message
// for a failed call. The message is suitable for surfacing to the user
// verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("atlas: backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("atlas: %s (status %d)", e.Message, e.StatusCode)
}

// IsAPIError extracts an *APIError from an error chain.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
