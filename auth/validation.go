package auth

import (
	"strings"

	"github.com/pkg/errors"
)

// ValidateCredentials checks the shape of login credentials. It rejects
// malformed input locally so that no network call is issued for requests
// that cannot possibly succeed.
func ValidateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.Wrap(ValidationErr, "email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.Wrap(ValidationErr, "invalid email format")
	}
	if password == "" {
		return errors.Wrap(ValidationErr, "password is required")
	}
	return nil
}
