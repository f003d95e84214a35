package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/auth"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSessionTools() {
	s.addTool(mcp.NewTool("initialize_client",
		mcp.WithDescription("Initialize the CML client with authentication credentials"),
		mcp.WithString("base_url", mcp.Required(), mcp.Description("Base URL of the CML server (e.g., https://cml-server)")),
		mcp.WithString("username", mcp.Required(), mcp.Description("Username for CML authentication")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Password for CML authentication")),
		mcp.WithBoolean("verify_ssl", mcp.DefaultBool(true),
			mcp.Description("Whether to verify SSL certificates (set to false for self-signed certificates)")),
	), s.initializeClient)
}

// initializeClient replaces the session only when the new credentials
// authenticate.
func (s *Server) initializeClient(ctx context.Context, args arguments) (*mcp.CallToolResult, error) {
	baseURL, err := args.requireString("base_url")
	if err != nil {
		return operationError("initialize_client", err), nil
	}

	username, err := args.requireString("username")
	if err != nil {
		return operationError("initialize_client", err), nil
	}

	password, err := args.requireString("password")
	if err != nil {
		return operationError("initialize_client", err), nil
	}

	verifySSL := args.getBool("verify_ssl", true)

	serverURL, err := cmlclient.NormalizeURL(baseURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error connecting to CML: %v", err)), nil
	}

	config := s.baseConfig
	config.ServerURL = serverURL
	config.Username = username
	config.Password = password
	config.InsecureSkipVerify = !verifySSL

	if config.Logger == nil {
		config.Logger = s.logger
	}

	s.logger.Info("Initializing CML client", map[string]interface{}{
		"server_url": serverURL,
		"verify_ssl": verifySSL,
	})

	session, err := s.factory(ctx, &config)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error connecting to CML: %v", err)), nil
	}

	token, err := session.Authenticate(ctx)
	if err != nil {
		s.logger.Error("Authentication failed", map[string]interface{}{
			"server_url": serverURL,
			"error":      err.Error(),
		})

		if cml.IsAuthenticationError(err) {
			return mcp.NewToolResultError(fmt.Sprintf("Authentication failed: %v", err)), nil
		}

		return mcp.NewToolResultError(fmt.Sprintf("Error connecting to CML: %v", err)), nil
	}

	s.setSession(session)

	s.logger.Debug("Token received", map[string]interface{}{"token_prefix": auth.TokenPrefix(token)})

	sslStatus := "enabled"
	if !verifySSL {
		sslStatus = "disabled (accepting self-signed certificates)"
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully authenticated with CML at %s (SSL verification: %s)",
		session.ServerURL(), sslStatus)), nil
}
