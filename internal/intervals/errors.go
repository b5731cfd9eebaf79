package intervals

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnauthorized is matched by API errors caused by a bad key or token
var ErrUnauthorized = errors.New("intervals.icu rejected the credentials")

// APIError represents a non-200 response from the intervals.icu API
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string

	// RetryAfter is set on 429 responses
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("intervals.icu API error %d on %s (retry after %v): %s", e.StatusCode, e.Endpoint, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("intervals.icu API error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match auth failures
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// IsRateLimited reports whether err is a 429 from the API
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}
