package cockpit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cashpilot/cockpit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with message", func(t *testing.T) {
		t.Parallel()
		err := &cockpit.APIError{StatusCode: 401, Message: "Invalid email or password"}
		assert.Equal(t, "api error: status 401: Invalid email or password", err.Error())
	})

	t.Run("without message", func(t *testing.T) {
		t.Parallel()
		err := &cockpit.APIError{StatusCode: 502}
		assert.Equal(t, "api error: status 502", err.Error())
	})
}

func TestAPIError_DiscriminatesFromTransportErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("sending message: %w", &cockpit.APIError{StatusCode: 400, Message: "bad"})
	var apiErr *cockpit.APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, 400, apiErr.StatusCode)

	transport := fmt.Errorf("sending message: %w", errors.New("dial tcp: connection refused"))
	apiErr = nil
	assert.False(t, errors.As(transport, &apiErr))
}

func TestSession_Valid(t *testing.T) {
	t.Parallel()

	assert.False(t, cockpit.Session{}.Valid())
	assert.False(t, cockpit.Session{Token: "tok"}.Valid())
	assert.False(t, cockpit.Session{User: cockpit.User{ID: "u1"}}.Valid())
	assert.True(t, cockpit.Session{Token: "tok", User: cockpit.User{ID: "u1"}}.Valid())
}
