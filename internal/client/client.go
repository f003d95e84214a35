package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/auth"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/hashicorp/go-cleanhttp"
)

// Static errors for err113 compliance.
var (
	ErrServerURLRequired = errors.New("server URL is required")
)

// Client implements the cml.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager *auth.SessionTokenManager
	baseURL      string
	logger       cml.Logger
	pollInterval time.Duration

	labs            *LabsClient
	nodeDefinitions *NodeDefinitionsClient
	nodes           *NodesClient
	interfaces      *InterfacesClient
	links           *LinksClient
}

// newTransportClient builds the *http.Client shared by login and API calls.
func newTransportClient(config *cml.Config) *nethttp.Client {
	transport := cleanhttp.DefaultPooledTransport()
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- self-signed lab servers are opted in explicitly
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	return &nethttp.Client{Transport: transport, Timeout: timeout}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *cml.Config, transportClient *nethttp.Client) []http.Option {
	httpOpts := []http.Option{http.WithHTTPClient(transportClient)}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a CML client. No request is sent until the first call.
func New(config *cml.Config) (*Client, error) {
	if config.ServerURL == "" {
		return nil, ErrServerURLRequired
	}

	logger := config.Logger
	if logger == nil {
		logger = cml.NopLogger{}
	}

	transportClient := newTransportClient(config)

	tokenManager := auth.NewSessionTokenManager(&auth.SessionConfig{
		ServerURL:  config.ServerURL,
		Username:   config.Username,
		Password:   config.Password,
		HTTPClient: transportClient,
		Logger:     logger,
	})

	httpClient := http.NewClient(config.ServerURL, tokenManager, createHTTPClientOptions(config, transportClient)...)

	pollInterval := config.PollInterval
	if pollInterval <= 0 {
		pollInterval = constants.NodePollInterval
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      httpClient.BaseURL(),
		logger:       logger,
		pollInterval: pollInterval,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.nodeDefinitions = NewNodeDefinitionsClient(c.httpClient)
	c.interfaces = NewInterfacesClient(c.httpClient, c.logger)
	c.nodes = NewNodesClient(c.httpClient, c.logger)
	c.links = NewLinksClient(c.httpClient, c.interfaces, c.logger)
	c.labs = NewLabsClient(c.httpClient, c.nodes, c.links, c.logger, c.pollInterval)
}

// Authenticate implements cml.Client.Authenticate.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	token, err := c.tokenManager.Authenticate(ctx)
	if err != nil {
		return "", fmt.Errorf("authenticating: %w", err)
	}

	return token, nil
}

// ServerURL implements cml.Client.ServerURL.
func (c *Client) ServerURL() string {
	return c.baseURL
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Labs implements cml.Client.Labs.
func (c *Client) Labs() cml.LabsClient {
	return c.labs
}

// NodeDefinitions implements cml.Client.NodeDefinitions.
func (c *Client) NodeDefinitions() cml.NodeDefinitionsClient {
	return c.nodeDefinitions
}

// Nodes implements cml.Client.Nodes.
func (c *Client) Nodes() cml.NodesClient {
	return c.nodes
}

// Interfaces implements cml.Client.Interfaces.
func (c *Client) Interfaces() cml.InterfacesClient {
	return c.interfaces
}

// Links implements cml.Client.Links.
func (c *Client) Links() cml.LinksClient {
	return c.links
}

func labPath(labID string) string {
	return constants.APIPathLabs + "/" + labID
}
