package auth

import (
	"context"
	"sync"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/golang-jwt/jwt/v5"
)

// TokenManager supplies bearer tokens to the HTTP layer.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Token is a bearer token issued by the login endpoint.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	ObtainedAt  time.Time `json:"obtained_at"`
}

// Valid reports whether the token can still be used. A token without a
// known expiry stays valid until the server rejects it.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the current token for a session.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// ExpiryFromJWT returns the exp claim of a JWT without verifying its
// signature. Opaque tokens and tokens without exp yield the zero time.
func ExpiryFromJWT(token string) time.Time {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}

// TokenPrefix returns the part of a token that may be logged.
func TokenPrefix(token string) string {
	if len(token) <= constants.TokenLogPrefixLength {
		return token
	}

	return token[:constants.TokenLogPrefixLength] + "..."
}
