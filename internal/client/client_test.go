package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	. "github.com/fivetwenty-io/cml-mcp/internal/client"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires server URL", func(t *testing.T) {
		t.Parallel()

		_, err := New(&cml.Config{})
		require.ErrorIs(t, err, ErrServerURLRequired)
	})

	t.Run("creates client without contacting the server", func(t *testing.T) {
		t.Parallel()

		client, err := New(&cml.Config{
			ServerURL:          "https://cml.example.com/",
			Username:           "admin",
			Password:           "secret",
			InsecureSkipVerify: true,
			RetryMax:           2,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cml.example.com", client.ServerURL())
		assert.NotNil(t, client.Labs())
		assert.NotNil(t, client.Nodes())
		assert.NotNil(t, client.Interfaces())
		assert.NotNil(t, client.Links())
		assert.NotNil(t, client.NodeDefinitions())
		assert.NotNil(t, client.GetTokenManager())
	})
}

// sessionServer counts logins and only accepts the most recently issued
// token. rejectAll turns every API call into a 401.
type sessionServer struct {
	logins    atomic.Int32
	mu        sync.Mutex
	current   string
	rejectAll bool
}

func (s *sessionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v0/authenticate":
		n := s.logins.Add(1)

		s.mu.Lock()
		s.current = "token-" + string(rune('0'+n))
		token := s.current
		s.mu.Unlock()

		_ = json.NewEncoder(w).Encode(token)
	case "/api/v0/authok":
		w.WriteHeader(http.StatusOK)
	default:
		s.mu.Lock()
		valid := !s.rejectAll && r.Header.Get("Authorization") == "Bearer "+s.current
		s.mu.Unlock()

		if !valid {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		_ = json.NewEncoder(w).Encode([]string{})
	}
}

func newSessionClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(&cml.Config{ServerURL: server.URL, Username: "admin", Password: "secret"})
	require.NoError(t, err)

	return client
}

func TestClient_Session(t *testing.T) {
	t.Parallel()

	t.Run("first request authenticates exactly once", func(t *testing.T) {
		t.Parallel()

		server := &sessionServer{}
		client := newSessionClient(t, server)

		_, err := client.Labs().List(context.Background())
		require.NoError(t, err)
		_, err = client.Labs().List(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int32(1), server.logins.Load())
	})

	t.Run("expired session is renewed once", func(t *testing.T) {
		t.Parallel()

		server := &sessionServer{}
		client := newSessionClient(t, server)

		_, err := client.Authenticate(context.Background())
		require.NoError(t, err)

		// Invalidate the session server side.
		server.mu.Lock()
		server.current = "revoked"
		server.mu.Unlock()

		_, err = client.Labs().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(2), server.logins.Load())
	})

	t.Run("persistent 401 is a request error", func(t *testing.T) {
		t.Parallel()

		server := &sessionServer{rejectAll: true}
		client := newSessionClient(t, server)

		_, err := client.Labs().List(context.Background())
		require.Error(t, err)
		assert.True(t, cml.IsUnauthorized(err))
		assert.Equal(t, int32(2), server.logins.Load())
	})

	t.Run("rejected login is an authentication error", func(t *testing.T) {
		t.Parallel()

		client := newSessionClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := client.Authenticate(context.Background())
		require.Error(t, err)
		assert.True(t, cml.IsAuthenticationError(err))

		_, err = client.Labs().List(context.Background())
		require.Error(t, err)
		assert.True(t, cml.IsAuthenticationError(err))
	})

	t.Run("concurrent 401s share one refresh", func(t *testing.T) {
		t.Parallel()

		server := &sessionServer{}
		client := newSessionClient(t, server)

		_, err := client.Authenticate(context.Background())
		require.NoError(t, err)

		server.mu.Lock()
		server.current = "revoked"
		server.mu.Unlock()

		var wg sync.WaitGroup

		for range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, _ = client.Labs().List(context.Background())
			}()
		}

		wg.Wait()

		assert.Equal(t, int32(2), server.logins.Load())
	})
}
