package cockpit

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates input failed validation before any network call.
	ErrValidation = errors.New("validation error")

	// ErrEmptyMessage indicates a send was attempted with no content.
	ErrEmptyMessage = errors.New("empty message")

	// ErrNoSession indicates an operation that requires a signed-in user.
	ErrNoSession = errors.New("no session")
)

// APIError reports an HTTP-level failure: the request reached the server
// and the server answered with a non-2xx status. Transport failures (DNS,
// refused connections, timeouts) are returned as ordinary errors and never
// as *APIError; callers discriminate with errors.As.
type APIError struct {
	StatusCode int
	Code       string // machine-readable code when the server provides one
	Message    string // human-readable detail from the response body
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Interface compliance check.
var _ error = (*APIError)(nil)
