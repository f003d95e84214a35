// Package cmlclient provides the main entry point for creating CML API clients
package cmlclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/cml-mcp/internal/client"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// New creates a new CML client. No request is sent until the first call.
func New(_ context.Context, config *cml.Config) (cml.Client, error) {
	if config == nil {
		return nil, cml.ErrConfigRequired
	}

	if config.ServerURL == "" {
		return nil, cml.ErrServerURLRequired
	}

	serverURL, err := NormalizeURL(config.ServerURL)
	if err != nil {
		return nil, err
	}

	config.ServerURL = serverURL

	c, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NewAuthenticated creates a client and logs in once so that bad
// credentials are reported immediately.
func NewAuthenticated(ctx context.Context, config *cml.Config) (cml.Client, error) {
	if config != nil && (config.Username == "" || config.Password == "") {
		return nil, cml.ErrCredentialsRequired
	}

	c, err := New(ctx, config)
	if err != nil {
		return nil, err
	}

	_, err = c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// NewWithPassword creates a new client using username/password authentication.
func NewWithPassword(ctx context.Context, serverURL, username, password string) (cml.Client, error) {
	return New(ctx, &cml.Config{
		ServerURL: serverURL,
		Username:  username,
		Password:  password,
	})
}

// NormalizeURL trims a trailing slash and adds "https://" when the address
// has no scheme.
func NormalizeURL(raw string) (string, error) {
	serverURL := strings.TrimSuffix(strings.TrimSpace(raw), "/")
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}

	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parsing server URL %q: %w", raw, err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: %q", cml.ErrNoHostInURL, raw)
	}

	return serverURL, nil
}
