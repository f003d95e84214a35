package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/sync/singleflight"
)

// SessionConfig configures username/password login against CML.
type SessionConfig struct {
	ServerURL  string
	Username   string
	Password   string
	HTTPClient *http.Client
	Logger     cml.Logger
}

// SessionTokenManager logs in against the CML authenticate endpoint and
// keeps the resulting token in memory. Concurrent logins are collapsed
// into a single request.
type SessionTokenManager struct {
	config *SessionConfig
	store  *TokenStore
	group  singleflight.Group
	logins atomic.Int64
}

// NewSessionTokenManager creates a session token manager.
func NewSessionTokenManager(config *SessionConfig) *SessionTokenManager {
	if config.HTTPClient == nil {
		config.HTTPClient = cleanhttp.DefaultPooledClient()
		config.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	}

	if config.Logger == nil {
		config.Logger = cml.NopLogger{}
	}

	config.ServerURL = strings.TrimSuffix(config.ServerURL, "/")

	return &SessionTokenManager{
		config: config,
		store:  NewTokenStore(),
	}
}

// GetToken returns the current token, logging in when there is none.
func (m *SessionTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if token.Valid() {
		return token.AccessToken, nil
	}

	return m.shared(ctx, func(loginCtx context.Context) (string, error) {
		if current := m.store.Get(); current.Valid() {
			return current.AccessToken, nil
		}

		return m.login(loginCtx)
	})
}

// RefreshToken logs in again.
func (m *SessionTokenManager) RefreshToken(ctx context.Context) error {
	var stale string
	if token := m.store.Get(); token != nil {
		stale = token.AccessToken
	}

	return m.RefreshStaleToken(ctx, stale)
}

// RefreshStaleToken logs in again unless the stored token already differs
// from the rejected one. Concurrent callers share a single login.
func (m *SessionTokenManager) RefreshStaleToken(ctx context.Context, stale string) error {
	_, err := m.shared(ctx, func(loginCtx context.Context) (string, error) {
		if current := m.store.Get(); current.Valid() && current.AccessToken != stale {
			return current.AccessToken, nil
		}

		return m.login(loginCtx)
	})

	return err
}

// SetToken stores a token obtained elsewhere.
func (m *SessionTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		ObtainedAt:  time.Now(),
	})
}

// Authenticate logs in and stores the returned token.
func (m *SessionTokenManager) Authenticate(ctx context.Context) (string, error) {
	return m.shared(ctx, m.login)
}

// shared runs fn once for all concurrent callers. The login itself is
// detached from any single caller's cancellation and bounded by
// DefaultHTTPTimeout; each caller still stops waiting when its own ctx ends.
func (m *SessionTokenManager) shared(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	results := m.group.DoChan("authenticate", func() (interface{}, error) {
		loginCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultHTTPTimeout)
		defer cancel()

		return fn(loginCtx)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for login: %w", ctx.Err())
	case result := <-results:
		if result.Err != nil {
			return "", result.Err
		}

		token, _ := result.Val.(string)

		return token, nil
	}
}

// Logins returns how many login requests have been sent.
func (m *SessionTokenManager) Logins() int64 {
	return m.logins.Load()
}

func (m *SessionTokenManager) login(ctx context.Context) (string, error) {
	m.logins.Add(1)

	token, err := m.requestToken(ctx)
	if err != nil {
		m.store.Clear()

		return "", err
	}

	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   ExpiryFromJWT(token),
		ObtainedAt:  time.Now(),
	})

	m.config.Logger.Info("Authenticated with CML", map[string]interface{}{
		"url":          m.config.ServerURL,
		"token_prefix": TokenPrefix(token),
	})

	m.verify(ctx, token)

	return token, nil
}

func (m *SessionTokenManager) requestToken(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"username": m.config.Username,
		"password": m.config.Password,
	})
	if err != nil {
		return "", fmt.Errorf("encoding credentials: %w", err)
	}

	loginURL := m.config.ServerURL + constants.APIPathAuthenticate

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	m.config.Logger.Debug("Authenticating with CML", map[string]interface{}{
		"url":      loginURL,
		"username": m.config.Username,
	})

	// Only a server response can reject the login.
	resp, err := m.config.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &cml.AuthenticationError{
			ServerURL:  m.config.ServerURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	token := parseTokenBody(body)
	if token == "" {
		return "", &cml.AuthenticationError{
			ServerURL:  m.config.ServerURL,
			StatusCode: resp.StatusCode,
			Err:        constants.ErrEmptyToken,
		}
	}

	return token, nil
}

// verify checks the token against authok. The result is only logged.
func (m *SessionTokenManager) verify(ctx context.Context, token string) {
	verifyCtx, cancel := context.WithTimeout(ctx, constants.ShortHTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(verifyCtx, http.MethodGet, m.config.ServerURL+constants.APIPathAuthOK, nil)
	if err != nil {
		return
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.config.HTTPClient.Do(req)
	if err != nil {
		m.config.Logger.Warn("Token verification request failed", map[string]interface{}{"error": err.Error()})

		return
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		m.config.Logger.Warn("Token verification failed", map[string]interface{}{"status": resp.StatusCode})

		return
	}

	m.config.Logger.Debug("Token verified", nil)
}

// parseTokenBody extracts the token from the login response, which is
// either a JSON string or the bare token.
func parseTokenBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)

	var token string
	if err := json.Unmarshal(trimmed, &token); err == nil {
		return strings.TrimSpace(token)
	}

	return strings.Trim(string(trimmed), `"`)
}
