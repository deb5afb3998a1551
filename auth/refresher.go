package auth

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/session"
)

// Refresher exchanges a session's refresh token for a new token pair.
//
// Concurrent refreshes for the same session are collapsed: all in-flight
// callers share a single backend call and receive the same pair or the same
// failure. On a terminal failure (the backend rejects the refresh token) the
// session is cleared, so the next request is routed back to login.
type Refresher struct {
	backend BackendClient
	store   session.Store
	group   singleflight.Group
	log     zerolog.Logger
}

// RefresherOption modifies a Refresher.
type RefresherOption func(*Refresher)

// WithRefresherLogger sets the refresher's logger.
func WithRefresherLogger(log zerolog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.log = log
	}
}

// NewRefresher initializes a Refresher with its required dependencies.
func NewRefresher(backendClient BackendClient, store session.Store, options ...RefresherOption) (*Refresher, error) {
	if backendClient == nil {
		return nil, errors.New("[NewRefresher] backend client is required")
	}
	if store == nil {
		return nil, errors.New("[NewRefresher] session store is required")
	}

	r := &Refresher{
		backend: backendClient,
		store:   store,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Refresh mints a new token pair for the given session. Returns NoSessionErr
// when the session is missing or carries no refresh token, RefreshExpiredErr
// when the backend rejects the refresh token (the session is cleared first),
// ServiceUnavailableErr on timeout or outage (session kept intact).
func (r *Refresher) Refresh(ctx context.Context, sessionID string) (session.TokenPair, error) {
	result, err, _ := r.group.Do(sessionID, func() (any, error) {
		return r.refresh(ctx, sessionID)
	})
	if err != nil {
		return session.TokenPair{}, err
	}
	return result.(session.TokenPair), nil
}

func (r *Refresher) refresh(ctx context.Context, sessionID string) (session.TokenPair, error) {
	sess, err := r.store.Get(sessionID)
	if err != nil {
		return session.TokenPair{}, NoSessionErr
	}
	if sess.Tokens.RefreshToken == "" {
		return session.TokenPair{}, NoSessionErr
	}

	result, err := r.backend.Refresh(ctx, sess.Tokens.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, backend.RejectedErr):
			// Terminal: the refresh token is dead. Clear the session so
			// the next request is gated back to login.
			if delErr := r.store.Delete(sessionID); delErr != nil {
				r.log.Error().Err(delErr).Str("session", sessionID).Msg("failed to clear expired session")
			}
			r.log.Info().Str("session", sessionID).Msg("refresh token rejected, session cleared")
			return session.TokenPair{}, RefreshExpiredErr
		case errors.Is(err, backend.UnavailableErr):
			return session.TokenPair{}, ServiceUnavailableErr
		default:
			r.log.Error().Err(err).Str("session", sessionID).Msg("unexpected backend refresh failure")
			return session.TokenPair{}, errors.Wrap(UnknownAuthErr, err.Error())
		}
	}

	pair := session.TokenPair{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		AccessExpiry: accessTokenExpiry(result.AccessToken),
	}
	if err := r.store.ReplaceTokens(sessionID, pair); err != nil {
		if errors.Is(err, session.NotFoundErr) {
			// Logout raced the refresh; do not resurrect the session.
			return session.TokenPair{}, NoSessionErr
		}
		return session.TokenPair{}, errors.Wrap(err, "[Refresher.Refresh] store.ReplaceTokens")
	}
	return pair, nil
}
