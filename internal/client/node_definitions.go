package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// NodeDefinitionsClient implements cml.NodeDefinitionsClient.
type NodeDefinitionsClient struct {
	httpClient *http.Client
}

// NewNodeDefinitionsClient creates a new node definitions client.
func NewNodeDefinitionsClient(httpClient *http.Client) *NodeDefinitionsClient {
	return &NodeDefinitionsClient{httpClient: httpClient}
}

// List implements cml.NodeDefinitionsClient.List. A list response is keyed
// by id; a mapping response is reduced to description, type and interfaces.
func (c *NodeDefinitionsClient) List(ctx context.Context) (cml.Collection, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathNodeDefinitions, nil)
	if err != nil {
		return nil, fmt.Errorf("listing node definitions: %w", err)
	}

	definitions, _, err := decodeCollection("list node definitions", resp.Body)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(bytes.TrimSpace(resp.Body), []byte("{")) {
		return definitions, nil
	}

	reduced := make(cml.Collection, len(definitions))

	for id, definition := range definitions {
		interfaces, ok := definition["interfaces"]
		if !ok || interfaces == nil {
			interfaces = []interface{}{}
		}

		reduced[id] = cml.Entity{
			"description": definition.String("description", ""),
			"type":        definition.String("type", ""),
			"interfaces":  interfaces,
		}
	}

	return reduced, nil
}
