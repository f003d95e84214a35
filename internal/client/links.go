package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// LinkPayloadStrategy builds one of the link payload shapes accepted by
// different CML releases.
type LinkPayloadStrategy struct {
	Name  string
	Build func(interfaceA, interfaceB string) map[string]string
}

// DefaultLinkStrategies are tried in order until the server accepts one.
var DefaultLinkStrategies = []LinkPayloadStrategy{
	{
		Name: "src_int/dst_int",
		Build: func(interfaceA, interfaceB string) map[string]string {
			return map[string]string{"src_int": interfaceA, "dst_int": interfaceB}
		},
	},
	{
		Name: "i1/i2",
		Build: func(interfaceA, interfaceB string) map[string]string {
			return map[string]string{"i1": interfaceA, "i2": interfaceB}
		},
	},
}

// LinksClient implements cml.LinksClient.
type LinksClient struct {
	httpClient *http.Client
	interfaces *InterfacesClient
	logger     cml.Logger
	strategies []LinkPayloadStrategy
}

// NewLinksClient creates a new links client.
func NewLinksClient(httpClient *http.Client, interfaces *InterfacesClient, logger cml.Logger) *LinksClient {
	return &LinksClient{
		httpClient: httpClient,
		interfaces: interfaces,
		logger:     logger,
		strategies: DefaultLinkStrategies,
	}
}

// List implements cml.LinksClient.List.
func (c *LinksClient) List(ctx context.Context, labID string) (cml.Collection, error) {
	resp, err := c.httpClient.Get(ctx, labPath(labID)+"/links", nil)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	links, ids, err := decodeCollection("list links", resp.Body)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		links[id] = cml.Entity{"id": id}
	}

	return links, nil
}

// Create implements cml.LinksClient.Create.
func (c *LinksClient) Create(ctx context.Context, labID, interfaceA, interfaceB string) (*cml.LinkResult, error) {
	return c.CreateWith(ctx, labID, interfaceA, interfaceB, c.strategies)
}

// CreateWith tries each strategy in order. An attempt succeeds when the
// response carries a link id; otherwise the next strategy is tried.
func (c *LinksClient) CreateWith(
	ctx context.Context,
	labID, interfaceA, interfaceB string,
	strategies []LinkPayloadStrategy,
) (*cml.LinkResult, error) {
	attemptErrs := make([]error, 0, len(strategies))

	for _, strategy := range strategies {
		link, err := c.attempt(ctx, labID, strategy.Build(interfaceA, interfaceB))
		if err == nil {
			c.logger.Info("Created link", map[string]interface{}{
				"lab_id":   labID,
				"link_id":  link.ID(),
				"strategy": strategy.Name,
			})

			return &cml.LinkResult{
				LinkID:     link.ID(),
				InterfaceA: interfaceA,
				InterfaceB: interfaceB,
				Strategy:   strategy.Name,
				Details:    link,
			}, nil
		}

		c.logger.Warn("Link payload rejected", map[string]interface{}{
			"lab_id":   labID,
			"strategy": strategy.Name,
			"error":    err.Error(),
		})

		attemptErrs = append(attemptErrs, fmt.Errorf("%s: %w", strategy.Name, err))
	}

	return nil, fmt.Errorf("%w: %w", constants.ErrAllLinkStrategiesFailed, errors.Join(attemptErrs...))
}

func (c *LinksClient) attempt(ctx context.Context, labID string, payload map[string]string) (cml.Entity, error) {
	resp, err := c.httpClient.Post(ctx, labPath(labID)+"/links", payload)
	if err != nil {
		return nil, fmt.Errorf("creating link: %w", err)
	}

	link, err := decodeEntity("create link", resp.Body)
	if err != nil {
		return nil, err
	}

	if link.ID() == "" {
		return nil, shapeError("create link", constants.ErrNoIDReturned.Error(), resp.Body)
	}

	return link, nil
}

// LinkNodes implements cml.LinksClient.LinkNodes.
func (c *LinksClient) LinkNodes(ctx context.Context, labID, nodeA, nodeB string) (*cml.LinkResult, error) {
	interfaceA, err := c.interfaces.FindAvailable(ctx, labID, nodeA)
	if err != nil {
		return nil, err
	}

	interfaceB, err := c.interfaces.FindAvailable(ctx, labID, nodeB)
	if err != nil {
		return nil, err
	}

	return c.Create(ctx, labID, interfaceA, interfaceB)
}

// Delete implements cml.LinksClient.Delete.
func (c *LinksClient) Delete(ctx context.Context, labID, linkID string) error {
	_, err := c.httpClient.Delete(ctx, labPath(labID)+"/links/"+linkID)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}

	return nil
}
