package session

import "github.com/pkg/errors"

var NotFoundErr = errors.New("session not found")

// Store holds the sessions for all active browsing contexts, keyed by the
// opaque session ID carried in the browser cookie.
//
// Reads are side-effect free. Writes come only from the credential verifier
// (Put), the token refresher (ReplaceTokens, Delete) and the logout handler
// (Delete). ReplaceTokens swaps both tokens in one step so a concurrent
// reader never observes a mixed pair.
type Store interface {
	Get(sessionID string) (Session, error)
	Put(sessionID string, session Session) error
	ReplaceTokens(sessionID string, tokens TokenPair) error
	Delete(sessionID string) error
}
