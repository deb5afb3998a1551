package auth

import "github.com/pkg/errors"

var (
	// ValidationErr reports malformed credentials, caught before any
	// network call is made.
	ValidationErr = errors.New("invalid credential format")
	// InvalidCredentialsErr reports a backend rejection of the email or
	// password. Surfaced to the user, never retried automatically.
	InvalidCredentialsErr = errors.New("invalid email or password")
	// ServiceUnavailableErr reports a backend timeout or outage. The user
	// may retry manually.
	ServiceUnavailableErr = errors.New("authentication service unavailable")
	// NoSessionErr reports a refresh attempt without an active session.
	NoSessionErr = errors.New("no active session")
	// RefreshExpiredErr reports a terminal refresh failure: the refresh
	// token was rejected and the session has been cleared.
	RefreshExpiredErr = errors.New("session expired, sign in again")
	// UnknownAuthErr is the catch-all for unexpected backend behaviour.
	UnknownAuthErr = errors.New("unexpected authentication failure")
)
