package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/http"
	"github.com/fivetwenty-io/cml-mcp/internal/poll"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// LabsClient implements cml.LabsClient.
type LabsClient struct {
	httpClient   *http.Client
	nodes        *NodesClient
	links        *LinksClient
	logger       cml.Logger
	pollInterval time.Duration
	settleDelay  time.Duration
}

// NewLabsClient creates a new labs client.
func NewLabsClient(
	httpClient *http.Client,
	nodes *NodesClient,
	links *LinksClient,
	logger cml.Logger,
	pollInterval time.Duration,
) *LabsClient {
	return &LabsClient{
		httpClient:   httpClient,
		nodes:        nodes,
		links:        links,
		logger:       logger,
		pollInterval: pollInterval,
		settleDelay:  constants.LabStopSettleDelay,
	}
}

// List implements cml.LabsClient.List. When the server only returns lab
// ids, each lab is fetched individually.
func (c *LabsClient) List(ctx context.Context) (cml.Collection, error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathLabs, nil)
	if err != nil {
		return nil, fmt.Errorf("listing labs: %w", err)
	}

	labs, ids, err := decodeCollection("list labs", resp.Body)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		lab, err := c.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if lab.ID() == "" {
			lab["id"] = id
		}

		labs[id] = lab
	}

	return labs, nil
}

// Create implements cml.LabsClient.Create.
func (c *LabsClient) Create(ctx context.Context, request *cml.LabCreateRequest) (cml.Entity, error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathLabs, request)
	if err != nil {
		return nil, fmt.Errorf("creating lab: %w", err)
	}

	lab, err := decodeEntity("create lab", resp.Body)
	if err != nil {
		return nil, err
	}

	if lab.ID() == "" {
		return nil, shapeError("create lab", constants.ErrNoIDReturned.Error(), resp.Body)
	}

	c.logger.Info("Created lab", map[string]interface{}{"lab_id": lab.ID(), "title": request.Title})

	return lab, nil
}

// Get implements cml.LabsClient.Get.
func (c *LabsClient) Get(ctx context.Context, labID string) (cml.Entity, error) {
	resp, err := c.httpClient.Get(ctx, labPath(labID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting lab: %w", err)
	}

	return decodeEntity("get lab", resp.Body)
}

// Delete implements cml.LabsClient.Delete. A running lab is stopped first.
func (c *LabsClient) Delete(ctx context.Context, labID string) error {
	lab, err := c.Get(ctx, labID)
	if err != nil {
		return err
	}

	if lab.String("state", "") == constants.StateStarted {
		c.logger.Info("Stopping lab before deletion", map[string]interface{}{"lab_id": labID})

		err = c.Stop(ctx, labID)
		if err != nil {
			return err
		}

		if c.settleDelay > 0 {
			timer := time.NewTimer(c.settleDelay)
			select {
			case <-ctx.Done():
				timer.Stop()

				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	_, err = c.httpClient.Delete(ctx, labPath(labID))
	if err != nil {
		return fmt.Errorf("deleting lab: %w", err)
	}

	return nil
}

// Start implements cml.LabsClient.Start.
func (c *LabsClient) Start(ctx context.Context, labID string) error {
	_, err := c.httpClient.Put(ctx, labPath(labID)+"/start", nil)
	if err != nil {
		return fmt.Errorf("starting lab: %w", err)
	}

	return nil
}

// Stop implements cml.LabsClient.Stop.
func (c *LabsClient) Stop(ctx context.Context, labID string) error {
	_, err := c.httpClient.Put(ctx, labPath(labID)+"/stop", nil)
	if err != nil {
		return fmt.Errorf("stopping lab: %w", err)
	}

	return nil
}

// WaitForNodes implements cml.LabsClient.WaitForNodes. Each round queries
// every node that has not reported STARTED yet.
func (c *LabsClient) WaitForNodes(ctx context.Context, labID string, timeout time.Duration) (*cml.WaitResult, error) {
	if timeout <= 0 {
		timeout = constants.DefaultNodeWaitTimeout
	}

	result := &cml.WaitResult{Timeout: timeout}

	lab, err := c.Get(ctx, labID)
	if err != nil {
		return nil, err
	}

	if lab.String("state", "") != constants.StateStarted {
		result.Outcome = cml.ReadinessNotStarted

		return result, nil
	}

	nodes, err := c.nodes.List(ctx, labID)
	if err != nil {
		return nil, err
	}

	ids := nodes.IDs()

	// Every node is queried each round; readiness means all of them
	// reported STARTED in the same round.
	var pending []string

	outcome, err := poll.Until(ctx, poll.Fixed(c.pollInterval, timeout), func(ctx context.Context, attempt int) (bool, error) {
		pending = pending[:0]

		for _, id := range ids {
			node, err := c.nodes.Get(ctx, labID, id)
			if err != nil {
				return false, err
			}

			if node.String("state", "") != constants.StateStarted {
				pending = append(pending, id)
			}
		}

		c.logger.Debug("Waiting for lab nodes", map[string]interface{}{
			"lab_id":  labID,
			"attempt": attempt,
			"pending": len(pending),
		})

		return len(pending) == 0, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for lab nodes: %w", err)
	}

	result.Attempts = outcome.Attempts

	if outcome.Outcome == poll.OutcomeReady {
		result.Outcome = cml.ReadinessReady

		return result, nil
	}

	result.Outcome = cml.ReadinessTimedOut
	result.Pending = append([]string(nil), pending...)

	return result, nil
}

// Topology implements cml.LabsClient.Topology.
func (c *LabsClient) Topology(ctx context.Context, labID string) (*cml.Topology, error) {
	lab, err := c.Get(ctx, labID)
	if err != nil {
		return nil, err
	}

	nodes, err := c.nodes.List(ctx, labID)
	if err != nil {
		return nil, err
	}

	links, err := c.links.List(ctx, labID)
	if err != nil {
		return nil, err
	}

	return &cml.Topology{Lab: lab, Nodes: nodes, Links: links}, nil
}
