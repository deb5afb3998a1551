package auth_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/consulago/dashboard-gateway/auth"
	"github.com/consulago/dashboard-gateway/backend"
	"github.com/consulago/dashboard-gateway/session"
)

const (
	testEmail    = "agent@consulat.example"
	testPassword = "password123"
	testUserID   = "user-1"
	testUserName = "A. Agent"
)

// fakeBackend is a hand-rolled BackendClient for auth tests.
type fakeBackend struct {
	mu           sync.Mutex
	loginCalls   atomic.Int64
	refreshCalls atomic.Int64
	loginResult  *backend.LoginResult
	loginErr     error
	refreshFn    func(refreshToken string) (*backend.TokenResult, error)
	refreshDelay time.Duration
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	f.loginCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeBackend) Refresh(ctx context.Context, refreshToken string) (*backend.TokenResult, error) {
	f.refreshCalls.Add(1)
	if f.refreshDelay > 0 {
		time.Sleep(f.refreshDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshFn != nil {
		return f.refreshFn(refreshToken)
	}
	return nil, errors.New("refresh not configured")
}

// signedToken builds an HS256 token carrying only an exp claim, mirroring
// what the backend issues.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func validLoginResult(t *testing.T) *backend.LoginResult {
	t.Helper()
	return &backend.LoginResult{
		User: backend.Principal{
			ID:    testUserID,
			Email: testEmail,
			Name:  testUserName,
			Kind:  string(session.KindPersonnel),
			Role:  string(session.RoleAgent),
		},
		AccessToken:  signedToken(t, time.Now().Add(15*time.Minute)),
		RefreshToken: "refresh-1",
	}
}

func TestVerifier_Login(t *testing.T) {
	t.Run("success stores session", func(t *testing.T) {
		fb := &fakeBackend{loginResult: validLoginResult(t)}
		store := session.NewInMemoryStore()
		v, err := auth.NewVerifier(fb, store)
		require.NoError(t, err)

		sess, sessionID, err := v.Login(context.Background(), testEmail, testPassword)
		require.NoError(t, err)
		require.NotEmpty(t, sessionID)
		require.Equal(t, testUserID, sess.UserID)
		require.Equal(t, session.RoleAgent, sess.Role)
		require.Equal(t, session.KindPersonnel, sess.Kind)
		require.False(t, sess.Tokens.AccessExpiry.IsZero())

		stored, err := store.Get(sessionID)
		require.NoError(t, err)
		require.Equal(t, sess, stored)
	})

	t.Run("malformed input never reaches the backend", func(t *testing.T) {
		fb := &fakeBackend{loginResult: validLoginResult(t)}
		store := session.NewInMemoryStore()
		v, err := auth.NewVerifier(fb, store)
		require.NoError(t, err)

		cases := [][2]string{
			{"", testPassword},
			{"not-an-email", testPassword},
			{testEmail, ""},
		}
		for _, c := range cases {
			_, _, err := v.Login(context.Background(), c[0], c[1])
			require.ErrorIs(t, err, auth.ValidationErr)
		}
		require.Zero(t, fb.loginCalls.Load(), "validation failures must not issue network calls")
	})

	t.Run("rejected credentials leave the store unchanged", func(t *testing.T) {
		fb := &fakeBackend{loginErr: errors.Wrap(backend.RejectedErr, "CredentialsSignin")}
		store := session.NewInMemoryStore()
		v, err := auth.NewVerifier(fb, store)
		require.NoError(t, err)

		_, _, err = v.Login(context.Background(), testEmail, "wrong")
		require.ErrorIs(t, err, auth.InvalidCredentialsErr)
		require.Equal(t, int64(1), fb.loginCalls.Load())
	})

	t.Run("backend outage maps to service unavailable", func(t *testing.T) {
		fb := &fakeBackend{loginErr: errors.Wrap(backend.UnavailableErr, "connection refused")}
		v, err := auth.NewVerifier(fb, session.NewInMemoryStore())
		require.NoError(t, err)

		_, _, err = v.Login(context.Background(), testEmail, testPassword)
		require.ErrorIs(t, err, auth.ServiceUnavailableErr)
	})

	t.Run("unexpected backend failure maps to unknown", func(t *testing.T) {
		fb := &fakeBackend{loginErr: errors.New("weird body")}
		v, err := auth.NewVerifier(fb, session.NewInMemoryStore())
		require.NoError(t, err)

		_, _, err = v.Login(context.Background(), testEmail, testPassword)
		require.ErrorIs(t, err, auth.UnknownAuthErr)
	})
}

func TestNewVerifier_RequiresDependencies(t *testing.T) {
	_, err := auth.NewVerifier(nil, session.NewInMemoryStore())
	require.Error(t, err)

	_, err = auth.NewVerifier(&fakeBackend{}, nil)
	require.Error(t, err)
}
