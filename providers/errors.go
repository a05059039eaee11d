package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is returned when a remote source answers with a non-success status.
type APIError struct {
	Source     string
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d, endpoint: %s)", e.Source, e.Message, e.StatusCode, e.Endpoint)
}

// IsClientError reports whether err carries a 4xx status. Rate limiting (429)
// is not considered a client error since waiting fixes it.
func IsClientError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
}
