package tools

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/mark3labs/mcp-go/mcp"
)

func notInitialized() *mcp.CallToolResult {
	return mcp.NewToolResultError(constants.ErrClientNotInitialized.Error())
}

// operationError reports a failed tool call to the host.
func operationError(operation string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error during %s: %v", operation, err))
}

func jsonResult(operation string, value any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return operationError(operation, fmt.Errorf("encoding result: %w", err))
	}

	return mcp.NewToolResultText(string(data))
}
