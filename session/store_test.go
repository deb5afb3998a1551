package session_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/consulago/dashboard-gateway/session"
)

func testSession(access, refresh string) session.Session {
	return session.Session{
		UserID: "user-1",
		Email:  "agent@consulat.example",
		Name:   "A. Agent",
		Kind:   session.KindPersonnel,
		Role:   session.RoleAgent,
		Tokens: session.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			AccessExpiry: time.Now().Add(15 * time.Minute),
		},
		CreatedAt: time.Now(),
	}
}

func TestInMemoryStore_CRUD(t *testing.T) {
	store := session.NewInMemoryStore()

	t.Run("get missing", func(t *testing.T) {
		_, err := store.Get("nope")
		require.ErrorIs(t, err, session.NotFoundErr)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, store.Put("sid-1", testSession("a1", "r1")))
		got, err := store.Get("sid-1")
		require.NoError(t, err)
		require.Equal(t, "a1", got.Tokens.AccessToken)
		require.Equal(t, session.RoleAgent, got.Role)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("sid-1"))
		_, err := store.Get("sid-1")
		require.ErrorIs(t, err, session.NotFoundErr)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete("sid-1"))
	})

	t.Run("empty id rejected", func(t *testing.T) {
		require.Error(t, store.Put("", testSession("a", "r")))
		_, err := store.Get("")
		require.Error(t, err)
	})
}

func TestInMemoryStore_ReplaceTokens(t *testing.T) {
	store := session.NewInMemoryStore()
	require.NoError(t, store.Put("sid-1", testSession("a1", "r1")))

	pair := session.TokenPair{AccessToken: "a2", RefreshToken: "r2"}
	require.NoError(t, store.ReplaceTokens("sid-1", pair))

	got, err := store.Get("sid-1")
	require.NoError(t, err)
	require.Equal(t, "a2", got.Tokens.AccessToken)
	require.Equal(t, "r2", got.Tokens.RefreshToken)
	// Identity fields survive the swap
	require.Equal(t, "user-1", got.UserID)

	t.Run("missing session", func(t *testing.T) {
		err := store.ReplaceTokens("nope", pair)
		require.ErrorIs(t, err, session.NotFoundErr)
	})
}

// TestInMemoryStore_NoTornPairs hammers ReplaceTokens from one goroutine
// while readers verify they only ever observe matched generations: a reader
// must never see the access token of one swap and the refresh token of
// another.
func TestInMemoryStore_NoTornPairs(t *testing.T) {
	store := session.NewInMemoryStore()
	require.NoError(t, store.Put("sid-1", testSession("access-0", "refresh-0")))

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			_ = store.ReplaceTokens("sid-1", session.TokenPair{
				AccessToken:  fmt.Sprintf("access-%d", i),
				RefreshToken: fmt.Sprintf("refresh-%d", i),
			})
		}
		close(done)
	}()

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				got, err := store.Get("sid-1")
				require.NoError(t, err)
				accessGen := got.Tokens.AccessToken[len("access-"):]
				refreshGen := got.Tokens.RefreshToken[len("refresh-"):]
				require.Equal(t, accessGen, refreshGen, "torn token pair observed")
			}
		}()
	}

	wg.Wait()
}

func TestTokenPair_ExpiresWithin(t *testing.T) {
	now := time.Now()

	pair := session.TokenPair{AccessExpiry: now.Add(10 * time.Second)}
	require.True(t, pair.ExpiresWithin(now, 30*time.Second))
	require.False(t, pair.ExpiresWithin(now, 5*time.Second))

	t.Run("unknown expiry never refreshes proactively", func(t *testing.T) {
		require.False(t, session.TokenPair{}.ExpiresWithin(now, time.Hour))
	})
}
