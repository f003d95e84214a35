package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// InterfacesClient implements cml.InterfacesClient.
type InterfacesClient struct {
	httpClient *http.Client
	logger     cml.Logger
}

// NewInterfacesClient creates a new interfaces client.
func NewInterfacesClient(httpClient *http.Client, logger cml.Logger) *InterfacesClient {
	return &InterfacesClient{httpClient: httpClient, logger: logger}
}

func operationalQuery(operational bool) url.Values {
	if !operational {
		return nil
	}

	return url.Values{"operational": []string{"true"}}
}

func (c *InterfacesClient) listIDs(ctx context.Context, labID, nodeID string, operational bool) ([]string, error) {
	resp, err := c.httpClient.Get(ctx, nodePath(labID, nodeID)+"/interfaces", operationalQuery(operational))
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}

	return decodeIDList("list interfaces", resp.Body)
}

// List implements cml.InterfacesClient.List.
func (c *InterfacesClient) List(ctx context.Context, labID, nodeID string) ([]string, error) {
	return c.listIDs(ctx, labID, nodeID, false)
}

// Get implements cml.InterfacesClient.Get.
func (c *InterfacesClient) Get(ctx context.Context, labID, interfaceID string, operational bool) (cml.Entity, error) {
	resp, err := c.httpClient.Get(ctx, labPath(labID)+"/interfaces/"+interfaceID, operationalQuery(operational))
	if err != nil {
		return nil, fmt.Errorf("getting interface: %w", err)
	}

	return decodeEntity("get interface", resp.Body)
}

// Physical implements cml.InterfacesClient.Physical.
func (c *InterfacesClient) Physical(ctx context.Context, labID, nodeID string) ([]cml.Entity, error) {
	ids, err := c.List(ctx, labID, nodeID)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, constants.ErrNoInterfacesFound
	}

	physical := make([]cml.Entity, 0, len(ids))

	for _, id := range ids {
		iface, err := c.Get(ctx, labID, id, false)
		if err != nil {
			return nil, err
		}

		if isPhysical(iface) {
			physical = append(physical, iface)
		}
	}

	if len(physical) == 0 {
		return nil, constants.ErrNoPhysicalInterfaces
	}

	return physical, nil
}

func isPhysical(iface cml.Entity) bool {
	if iface.Has("type") {
		return iface.String("type", "") == constants.InterfaceTypePhysical
	}

	return iface.Has("slot")
}

// Create implements cml.InterfacesClient.Create. Interfaces cannot be added
// while the lab is running.
func (c *InterfacesClient) Create(ctx context.Context, labID, nodeID string, slot int) (cml.Entity, error) {
	resp, err := c.httpClient.Get(ctx, labPath(labID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting lab state: %w", err)
	}

	lab, err := decodeEntity("get lab", resp.Body)
	if err != nil {
		return nil, err
	}

	if lab.String("state", "") == constants.StateStarted {
		return nil, constants.ErrLabRunning
	}

	resp, err = c.httpClient.Post(ctx, labPath(labID)+"/interfaces", &cml.InterfaceCreateRequest{
		Node: nodeID,
		Slot: slot,
	})
	if err != nil {
		return nil, fmt.Errorf("creating interface: %w", err)
	}

	raw, err := decodeJSON("create interface", resp.Body)
	if err != nil {
		return nil, err
	}

	// A list response carries the created interface as its first element.
	if list, ok := raw.([]interface{}); ok && len(list) > 0 {
		raw = list[0]
	}

	iface, ok := raw.(map[string]interface{})
	if !ok {
		return nil, shapeError("create interface", "expected an object or a list of objects", resp.Body)
	}

	return cml.Entity(iface), nil
}

// FindAvailable implements cml.InterfacesClient.FindAvailable.
func (c *InterfacesClient) FindAvailable(ctx context.Context, labID, nodeID string) (string, error) {
	ids, err := c.listIDs(ctx, labID, nodeID, true)
	if err != nil {
		return "", err
	}

	for _, id := range ids {
		iface, err := c.Get(ctx, labID, id, true)
		if err != nil {
			return "", err
		}

		connected, ok := iface.Bool("is_connected")
		if iface.String("type", "") == constants.InterfaceTypePhysical && ok && !connected {
			c.logger.Debug("Found available interface", map[string]interface{}{
				"node_id":      nodeID,
				"interface_id": id,
			})

			return id, nil
		}
	}

	return "", fmt.Errorf("%w on node %s", constants.ErrNoAvailableInterface, nodeID)
}
