package cml

import (
	"context"
	"time"
)

// LabsClient manages labs and their lifecycle.
type LabsClient interface {
	List(ctx context.Context) (Collection, error)
	Create(ctx context.Context, request *LabCreateRequest) (Entity, error)
	Get(ctx context.Context, labID string) (Entity, error)
	Delete(ctx context.Context, labID string) error
	Start(ctx context.Context, labID string) error
	Stop(ctx context.Context, labID string) error
	WaitForNodes(ctx context.Context, labID string, timeout time.Duration) (*WaitResult, error)
	Topology(ctx context.Context, labID string) (*Topology, error)
}

// NodeDefinitionsClient lists the device templates known to the server.
type NodeDefinitionsClient interface {
	List(ctx context.Context) (Collection, error)
}

// NodesClient manages nodes and their configuration.
type NodesClient interface {
	List(ctx context.Context, labID string) (Collection, error)
	Get(ctx context.Context, labID, nodeID string) (Entity, error)
	Create(ctx context.Context, labID string, request *NodeCreateRequest) (Entity, error)
	CreateRouter(ctx context.Context, labID, label string, x, y int) (Entity, error)
	CreateSwitch(ctx context.Context, labID, label string, interfaces, x, y int) (Entity, error)
	GetConfig(ctx context.Context, labID, nodeID string) (string, error)
	Configure(ctx context.Context, labID, nodeID, config string) error
}

// InterfacesClient manages node interfaces.
type InterfacesClient interface {
	List(ctx context.Context, labID, nodeID string) ([]string, error)
	Get(ctx context.Context, labID, interfaceID string, operational bool) (Entity, error)
	Physical(ctx context.Context, labID, nodeID string) ([]Entity, error)
	Create(ctx context.Context, labID, nodeID string, slot int) (Entity, error)
	FindAvailable(ctx context.Context, labID, nodeID string) (string, error)
}

// LinksClient manages links between interfaces.
type LinksClient interface {
	List(ctx context.Context, labID string) (Collection, error)
	Create(ctx context.Context, labID, interfaceA, interfaceB string) (*LinkResult, error)
	LinkNodes(ctx context.Context, labID, nodeA, nodeB string) (*LinkResult, error)
	Delete(ctx context.Context, labID, linkID string) error
}

// Client is the entry point to a CML server session.
type Client interface {
	Labs() LabsClient
	NodeDefinitions() NodeDefinitionsClient
	Nodes() NodesClient
	Interfaces() InterfacesClient
	Links() LinksClient

	// Authenticate logs in and returns the new token.
	Authenticate(ctx context.Context) (string, error)

	// ServerURL returns the normalized server address.
	ServerURL() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a cml.Client.
//
// # Authentication
//
// The session logs in with Username/Password on first use, attaches the
// returned bearer token to every request and logs in again exactly once
// when a request is rejected with 401.
//
// # Timeouts, retries, and TLS
//
// Per-request timeouts should be controlled via the context passed to
// client methods. Transport retries for 5xx and 429 responses are disabled
// unless RetryMax is set. InsecureSkipVerify disables certificate
// verification for self-signed deployments.
type Config struct {
	// ServerURL: base URL of the CML server. "https://" is added when no
	// scheme is present and a trailing slash is trimmed.
	ServerURL string
	// Username and Password: credentials for the login endpoint.
	Username string
	Password string

	// InsecureSkipVerify: if true, TLS certificates are not verified.
	InsecureSkipVerify bool
	// HTTPTimeout: default timeout for a single HTTP exchange.
	HTTPTimeout time.Duration
	// RetryMax: maximum number of transport retries for 5xx, 429 and
	// connection errors. Zero disables them.
	RetryMax int
	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// PollInterval: delay between readiness rounds. Zero uses the default.
	PollInterval time.Duration
	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP and auth layers.
	Logger Logger
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
}
