package cockpit

import (
	"fmt"
	"strings"
)

// ValidateMessage checks outgoing message content before any network
// call. Whitespace-only content counts as empty.
func ValidateMessage(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ValidateCredentials checks sign-in input before any network call.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email %q is not an email address: %w", email, ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("password is required: %w", ErrValidation)
	}
	return nil
}

// ValidateRegistration checks sign-up input before any network call.
// The server enforces the same eight character password minimum.
func ValidateRegistration(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", ErrValidation)
	}
	return nil
}
