// Package tools exposes CML operations as Model Context Protocol tools,
// resources and prompts.
package tools

import (
	"context"
	"io"
	"sync"

	"github.com/fivetwenty-io/cml-mcp/internal/workflows"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is announced to the tool host.
const ServerName = "CML Lab Builder"

// SessionFactory builds the client used by initialize_client. The returned
// client has not authenticated yet.
type SessionFactory func(ctx context.Context, config *cml.Config) (cml.Client, error)

// Server owns the current CML session and the MCP server exposing it.
type Server struct {
	mu      sync.RWMutex
	session cml.Client

	factory    SessionFactory
	baseConfig cml.Config
	logger     cml.Logger
	version    string

	mcp   *server.MCPServer
	tools map[string]server.ToolHandlerFunc
}

// Option configures a Server.
type Option func(*Server)

// WithSessionFactory replaces the client constructor used by initialize_client.
func WithSessionFactory(factory SessionFactory) Option {
	return func(s *Server) {
		s.factory = factory
	}
}

// WithSession installs an already configured session.
func WithSession(session cml.Client) Option {
	return func(s *Server) {
		s.session = session
	}
}

// WithBaseConfig sets the transport settings applied to every session.
// Server address and credentials are taken from initialize_client.
func WithBaseConfig(config cml.Config) Option {
	return func(s *Server) {
		s.baseConfig = config
	}
}

// WithLogger sets the logger.
func WithLogger(logger cml.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version announced to the tool host.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates the tool server with every tool, resource and prompt registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		factory: cmlclient.New,
		logger:  cml.NopLogger{},
		version: "dev",
		tools:   map[string]server.ToolHandlerFunc{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mcp = server.NewMCPServer(ServerName, s.version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)

	s.registerSessionTools()
	s.registerLabTools()
	s.registerNodeTools()
	s.registerInterfaceTools()
	s.registerLinkTools()
	s.registerConfigTools()
	s.registerWorkflowTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over the given streams until ctx is cancelled or
// the input is closed.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("Starting MCP server", map[string]interface{}{
		"name":    ServerName,
		"version": s.version,
	})

	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

// Session returns the current session, or nil before initialize_client.
func (s *Server) Session() cml.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.session
}

func (s *Server) setSession(session cml.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
}

func (s *Server) runner(session cml.Client) *workflows.Runner {
	return workflows.NewRunner(session, s.logger)
}

// sessionHandler receives the current session.
type sessionHandler func(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error)

// addTool registers a handler that needs no session.
func (s *Server) addTool(tool mcp.Tool, handler func(ctx context.Context, args arguments) (*mcp.CallToolResult, error)) {
	wrapped := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.logger.Debug("Tool called", map[string]interface{}{"tool": tool.Name})

		return handler(ctx, arguments{request})
	}

	s.tools[tool.Name] = wrapped
	s.mcp.AddTool(tool, wrapped)
}

// addSessionTool registers a handler that refuses to run before initialize_client.
func (s *Server) addSessionTool(tool mcp.Tool, handler sessionHandler) {
	s.addTool(tool, func(ctx context.Context, args arguments) (*mcp.CallToolResult, error) {
		session := s.Session()
		if session == nil {
			return notInitialized(), nil
		}

		return handler(ctx, session, args)
	})
}
