// Package auth implements the credential verifier and token refresher that
// sit between the dashboard's HTTP surface and the backend auth API. Both
// components return typed errors from a fixed taxonomy and are the only
// writers of the session store besides the logout handler.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/session"
)

// BackendClient is the slice of the backend API the auth components need.
type BackendClient interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*backend.TokenResult, error)
}

// Verifier exchanges credentials for a session. It talks to the backend
// directly so that backend error detail is preserved, then writes the
// resulting session to the store under a fresh session ID.
type Verifier struct {
	backend BackendClient
	store   session.Store
	nowTime func() time.Time
	log     zerolog.Logger
}

// VerifierOption modifies a Verifier.
type VerifierOption func(*Verifier)

// WithVerifierNowTime sets the now time function (primarily for testing).
func WithVerifierNowTime(nowFunc func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.nowTime = nowFunc
	}
}

// WithVerifierLogger sets the verifier's logger.
func WithVerifierLogger(log zerolog.Logger) VerifierOption {
	return func(v *Verifier) {
		v.log = log
	}
}

// NewVerifier initializes a Verifier with its required dependencies.
func NewVerifier(backendClient BackendClient, store session.Store, options ...VerifierOption) (*Verifier, error) {
	if backendClient == nil {
		return nil, errors.New("[NewVerifier] backend client is required")
	}
	if store == nil {
		return nil, errors.New("[NewVerifier] session store is required")
	}

	v := &Verifier{
		backend: backendClient,
		store:   store,
		nowTime: time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(v)
	}
	return v, nil
}

// Login validates the credential shape, exchanges the credentials with the
// backend and stores the resulting session. It returns the new session and
// its ID, or one of ValidationErr, InvalidCredentialsErr,
// ServiceUnavailableErr, UnknownAuthErr. A failed attempt is never retried
// here and leaves the store untouched.
func (v *Verifier) Login(ctx context.Context, email, password string) (session.Session, string, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return session.Session{}, "", err
	}

	result, err := v.backend.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return session.Session{}, "", v.mapBackendError(err)
	}

	sess := session.Session{
		UserID: result.User.ID,
		Email:  result.User.Email,
		Name:   result.User.Name,
		Kind:   session.UserKind(result.User.Kind),
		Role:   session.Role(result.User.Role),
		Tokens: session.TokenPair{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			AccessExpiry: accessTokenExpiry(result.AccessToken),
		},
		CreatedAt: v.nowTime(),
	}

	sessionID := uuid.New().String()
	if err := v.store.Put(sessionID, sess); err != nil {
		return session.Session{}, "", errors.Wrap(err, "[Verifier.Login] store.Put")
	}

	v.log.Info().Str("user", sess.UserID).Str("role", string(sess.Role)).Msg("login succeeded")
	return sess, sessionID, nil
}

func (v *Verifier) mapBackendError(err error) error {
	switch {
	case errors.Is(err, backend.RejectedErr):
		return InvalidCredentialsErr
	case errors.Is(err, backend.UnavailableErr):
		return ServiceUnavailableErr
	default:
		v.log.Error().Err(err).Msg("unexpected backend login failure")
		return errors.Wrap(UnknownAuthErr, err.Error())
	}
}
