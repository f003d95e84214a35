package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// NodesClient implements cml.NodesClient.
type NodesClient struct {
	httpClient *http.Client
	logger     cml.Logger
}

// NewNodesClient creates a new nodes client.
func NewNodesClient(httpClient *http.Client, logger cml.Logger) *NodesClient {
	return &NodesClient{httpClient: httpClient, logger: logger}
}

func nodePath(labID, nodeID string) string {
	return labPath(labID) + "/nodes/" + nodeID
}

// List implements cml.NodesClient.List.
func (c *NodesClient) List(ctx context.Context, labID string) (cml.Collection, error) {
	resp, err := c.httpClient.Get(ctx, labPath(labID)+"/nodes", nil)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	nodes, ids, err := decodeCollection("list nodes", resp.Body)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		nodes[id] = cml.Entity{"id": id}
	}

	return nodes, nil
}

// Get implements cml.NodesClient.Get.
func (c *NodesClient) Get(ctx context.Context, labID, nodeID string) (cml.Entity, error) {
	resp, err := c.httpClient.Get(ctx, nodePath(labID, nodeID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting node: %w", err)
	}

	return decodeEntity("get node", resp.Body)
}

// Create implements cml.NodesClient.Create.
func (c *NodesClient) Create(ctx context.Context, labID string, request *cml.NodeCreateRequest) (cml.Entity, error) {
	body := *request
	if body.Parameters == nil {
		body.Parameters = map[string]string{}
	}

	if body.Tags == nil {
		body.Tags = []string{}
	}

	var query url.Values
	if request.PopulateInterfaces {
		query = url.Values{"populate_interfaces": []string{"true"}}
	}

	c.logger.Info("Creating node", map[string]interface{}{
		"lab_id":          labID,
		"label":           body.Label,
		"node_definition": body.NodeDefinition,
	})

	resp, err := c.httpClient.PostWithQuery(ctx, labPath(labID)+"/nodes", query, &body)
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	node, err := decodeEntity("create node", resp.Body)
	if err != nil {
		return nil, err
	}

	if node.ID() == "" {
		return nil, shapeError("create node", constants.ErrNoIDReturned.Error(), resp.Body)
	}

	return node, nil
}

// CreateRouter implements cml.NodesClient.CreateRouter.
func (c *NodesClient) CreateRouter(ctx context.Context, labID, label string, x, y int) (cml.Entity, error) {
	return c.Create(ctx, labID, &cml.NodeCreateRequest{
		Label:              label,
		NodeDefinition:     constants.NodeDefinitionRouter,
		X:                  x,
		Y:                  y,
		PopulateInterfaces: true,
	})
}

// CreateSwitch implements cml.NodesClient.CreateSwitch.
func (c *NodesClient) CreateSwitch(ctx context.Context, labID, label string, interfaces, x, y int) (cml.Entity, error) {
	if interfaces <= 0 {
		interfaces = constants.DefaultSwitchInterfaces
	}

	return c.Create(ctx, labID, &cml.NodeCreateRequest{
		Label:              label,
		NodeDefinition:     constants.NodeDefinitionSwitch,
		X:                  x,
		Y:                  y,
		Parameters:         map[string]string{"slot1": strconv.Itoa(interfaces)},
		PopulateInterfaces: true,
	})
}

// GetConfig implements cml.NodesClient.GetConfig. The server answers with
// either a JSON string or plain text.
func (c *NodesClient) GetConfig(ctx context.Context, labID, nodeID string) (string, error) {
	resp, err := c.httpClient.Get(ctx, nodePath(labID, nodeID)+"/config", nil)
	if err != nil {
		return "", fmt.Errorf("getting node config: %w", err)
	}

	var config string
	if err := json.Unmarshal(resp.Body, &config); err == nil {
		return config, nil
	}

	return string(resp.Body), nil
}

// Configure implements cml.NodesClient.Configure.
func (c *NodesClient) Configure(ctx context.Context, labID, nodeID, config string) error {
	_, err := c.httpClient.PutText(ctx, nodePath(labID, nodeID)+"/config", config)
	if err != nil {
		return fmt.Errorf("configuring node: %w", err)
	}

	c.logger.Info("Applied node configuration", map[string]interface{}{
		"lab_id":  labID,
		"node_id": nodeID,
		"bytes":   len(config),
	})

	return nil
}
