package session

import (
	"sync"

	"github.com/pkg/errors"
)

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]Session),
	}
}

func (s *InMemoryStore) Get(sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.New("sessionID is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, NotFoundErr
	}
	return session, nil
}

func (s *InMemoryStore) Put(sessionID string, session Session) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = session
	return nil
}

// ReplaceTokens swaps the token pair of an existing session. The swap happens
// under the write lock, so readers see either the old pair or the new pair.
func (s *InMemoryStore) ReplaceTokens(sessionID string, tokens TokenPair) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return NotFoundErr
	}
	session.Tokens = tokens
	s.sessions[sessionID] = session
	return nil
}

func (s *InMemoryStore) Delete(sessionID string) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}
