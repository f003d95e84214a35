package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/cmltest"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func newSessionServer(t *testing.T) (*Server, *cmltest.Fake) {
	t.Helper()

	fake := cmltest.NewFake()

	return NewServer(WithSession(fake)), fake
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	handler, ok := s.tools[name]
	require.True(t, ok, "tool %s is not registered", name)

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)

	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()

	require.NotEmpty(t, result.Content)

	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", result.Content[0])

	return content.Text
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	require.False(t, result.IsError, resultText(t, result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))

	return decoded
}
