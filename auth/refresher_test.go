package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/session"
)

func seedSession(t *testing.T, store session.Store, refreshToken string) string {
	t.Helper()
	const sessionID = "sid-1"
	require.NoError(t, store.Put(sessionID, session.Session{
		UserID: testUserID,
		Email:  testEmail,
		Kind:   session.KindPersonnel,
		Role:   session.RoleAgent,
		Tokens: session.TokenPair{
			AccessToken:  "stale-access",
			RefreshToken: refreshToken,
			AccessExpiry: time.Now().Add(-time.Minute),
		},
		CreatedAt: time.Now(),
	}))
	return sessionID
}

func TestRefresher_Refresh(t *testing.T) {
	t.Run("round trip replaces both tokens", func(t *testing.T) {
		newAccess := signedToken(t, time.Now().Add(15*time.Minute))
		fb := &fakeBackend{
			refreshFn: func(refreshToken string) (*backend.TokenResult, error) {
				require.Equal(t, "refresh-1", refreshToken)
				return &backend.TokenResult{AccessToken: newAccess, RefreshToken: "refresh-2"}, nil
			},
		}
		store := session.NewInMemoryStore()
		sessionID := seedSession(t, store, "refresh-1")

		r, err := auth.NewRefresher(fb, store)
		require.NoError(t, err)

		pair, err := r.Refresh(context.Background(), sessionID)
		require.NoError(t, err)
		require.Equal(t, newAccess, pair.AccessToken)
		require.Equal(t, "refresh-2", pair.RefreshToken)
		require.NotEqual(t, "stale-access", pair.AccessToken)
		require.False(t, pair.AccessExpiry.IsZero())

		stored, err := store.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, pair, stored.Tokens)
	})

	t.Run("no session", func(t *testing.T) {
		r, err := auth.NewRefresher(&fakeBackend{}, session.NewInMemoryStore())
		require.NoError(t, err)

		_, err = r.Refresh(context.Background(), "missing")
		require.ErrorIs(t, err, auth.NoSessionErr)
	})

	t.Run("empty refresh token", func(t *testing.T) {
		store := session.NewInMemoryStore()
		sessionID := seedSession(t, store, "")

		r, err := auth.NewRefresher(&fakeBackend{}, store)
		require.NoError(t, err)

		_, err = r.Refresh(context.Background(), sessionID)
		require.ErrorIs(t, err, auth.NoSessionErr)
	})

	t.Run("terminal rejection clears the session", func(t *testing.T) {
		fb := &fakeBackend{
			refreshFn: func(string) (*backend.TokenResult, error) {
				return nil, errors.Wrap(backend.RejectedErr, "refresh token expired")
			},
		}
		store := session.NewInMemoryStore()
		sessionID := seedSession(t, store, "expired-refresh")

		r, err := auth.NewRefresher(fb, store)
		require.NoError(t, err)

		_, err = r.Refresh(context.Background(), sessionID)
		require.ErrorIs(t, err, auth.RefreshExpiredErr)

		_, err = store.Get(sessionID)
		require.ErrorIs(t, err, session.NotFoundErr)
	})

	t.Run("outage keeps the session intact", func(t *testing.T) {
		fb := &fakeBackend{
			refreshFn: func(string) (*backend.TokenResult, error) {
				return nil, errors.Wrap(backend.UnavailableErr, "timeout")
			},
		}
		store := session.NewInMemoryStore()
		sessionID := seedSession(t, store, "refresh-1")

		r, err := auth.NewRefresher(fb, store)
		require.NoError(t, err)

		_, err = r.Refresh(context.Background(), sessionID)
		require.ErrorIs(t, err, auth.ServiceUnavailableErr)

		stored, err := store.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, "refresh-1", stored.Tokens.RefreshToken)
	})
}

// TestRefresher_ConcurrentRefreshCollapses checks the at-most-one-in-flight
// guarantee: N concurrent refreshes against the same stale session trigger a
// single backend call, and every caller receives the same resulting pair.
func TestRefresher_ConcurrentRefreshCollapses(t *testing.T) {
	newAccess := signedToken(t, time.Now().Add(15*time.Minute))
	fb := &fakeBackend{
		refreshDelay: 50 * time.Millisecond,
		refreshFn: func(string) (*backend.TokenResult, error) {
			return &backend.TokenResult{AccessToken: newAccess, RefreshToken: "refresh-2"}, nil
		},
	}
	store := session.NewInMemoryStore()
	sessionID := seedSession(t, store, "refresh-1")

	r, err := auth.NewRefresher(fb, store)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	pairs := make(chan session.TokenPair, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			pair, err := r.Refresh(context.Background(), sessionID)
			require.NoError(t, err)
			pairs <- pair
		}()
	}
	wg.Wait()
	close(pairs)

	require.Equal(t, int64(1), fb.refreshCalls.Load(), "expected exactly one backend refresh call")

	want := session.TokenPair{}
	for pair := range pairs {
		if want.AccessToken == "" {
			want = pair
			continue
		}
		require.Equal(t, want, pair, "all concurrent callers must share one result")
	}
	require.Equal(t, newAccess, want.AccessToken)
}

// TestRefresher_ConcurrentFailureShared mirrors the collapse test for the
// failure path: everyone gets the same terminal error from one backend call.
func TestRefresher_ConcurrentFailureShared(t *testing.T) {
	fb := &fakeBackend{
		refreshDelay: 50 * time.Millisecond,
		refreshFn: func(string) (*backend.TokenResult, error) {
			return nil, errors.Wrap(backend.RejectedErr, "refresh token expired")
		},
	}
	store := session.NewInMemoryStore()
	sessionID := seedSession(t, store, "expired")

	r, err := auth.NewRefresher(fb, store)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)

	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := r.Refresh(context.Background(), sessionID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	require.Equal(t, int64(1), fb.refreshCalls.Load())
	for err := range errs {
		require.ErrorIs(t, err, auth.RefreshExpiredErr)
	}
}

func TestValidateCredentials(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, auth.ValidateCredentials(testEmail, testPassword))
	})

	t.Run("surrounding whitespace tolerated", func(t *testing.T) {
		require.NoError(t, auth.ValidateCredentials("  "+testEmail+"  ", testPassword))
	})

	t.Run("missing email", func(t *testing.T) {
		err := auth.ValidateCredentials("", testPassword)
		require.ErrorIs(t, err, auth.ValidationErr)
		require.Contains(t, err.Error(), "email is required")
	})

	t.Run("bad email format", func(t *testing.T) {
		err := auth.ValidateCredentials("nodomain", testPassword)
		require.ErrorIs(t, err, auth.ValidationErr)
	})

	t.Run("missing password", func(t *testing.T) {
		err := auth.ValidateCredentials(testEmail, "")
		require.ErrorIs(t, err, auth.ValidationErr)
		require.Contains(t, err.Error(), "password is required")
	})
}
