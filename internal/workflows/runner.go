// Package workflows composes resource client calls into complete labs.
package workflows

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/configgen"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// Runner builds labs through a CML client.
type Runner struct {
	client cml.Client
	logger cml.Logger
}

// NewRunner creates a workflow runner.
func NewRunner(client cml.Client, logger cml.Logger) *Runner {
	if logger == nil {
		logger = cml.NopLogger{}
	}

	return &Runner{client: client, logger: logger}
}

// SimpleNetworkResult describes a router and switch lab.
type SimpleNetworkResult struct {
	LabID       string         `json:"lab_id"       yaml:"lab_id"`
	Title       string         `json:"title"        yaml:"title"`
	RouterID    string         `json:"router_id"    yaml:"router_id"`
	SwitchID    string         `json:"switch_id"    yaml:"switch_id"`
	LinkStatus  string         `json:"link_status"  yaml:"link_status"`
	LinkDetails map[string]any `json:"link_details" yaml:"link_details"`
}

// OSPFLabResult describes a two router OSPF lab.
type OSPFLabResult struct {
	LabID        string `json:"lab_id"       yaml:"lab_id"`
	Title        string `json:"title"        yaml:"title"`
	Router1ID    string `json:"router1_id"   yaml:"router1_id"`
	Router2ID    string `json:"router2_id"   yaml:"router2_id"`
	LinkID       string `json:"link_id"      yaml:"link_id"`
	Status       string `json:"status"       yaml:"status"`
	Instructions string `json:"instructions" yaml:"instructions"`
}

// SimpleNetwork creates a lab with Router1 linked to an 8 port Switch1. A
// failed link is reported in the result.
func (r *Runner) SimpleNetwork(ctx context.Context, title, description string) (*SimpleNetworkResult, error) {
	labID, err := r.createLab(ctx, title, description)
	if err != nil {
		return nil, err
	}

	router, err := r.client.Nodes().CreateRouter(ctx, labID, "Router1", 50, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	sw, err := r.client.Nodes().CreateSwitch(ctx, labID, "Switch1", constants.DefaultSwitchInterfaces, 50, 150)
	if err != nil {
		return nil, fmt.Errorf("failed to create switch: %w", err)
	}

	result := &SimpleNetworkResult{
		LabID:    labID,
		Title:    title,
		RouterID: router.ID(),
		SwitchID: sw.ID(),
	}

	link, err := r.client.Links().LinkNodes(ctx, labID, router.ID(), sw.ID())
	if err != nil {
		r.logger.Warn("Linking router and switch failed", map[string]interface{}{
			"lab_id": labID,
			"error":  err.Error(),
		})

		result.LinkStatus = constants.StatusFailed
		result.LinkDetails = map[string]any{"error": err.Error()}

		return result, nil
	}

	result.LinkStatus = constants.StatusSuccess
	result.LinkDetails = linkDetails(link)

	return result, nil
}

// OSPFLab creates two linked routers running OSPF on 10.0.0.0/24.
func (r *Runner) OSPFLab(ctx context.Context, title, description string) (*OSPFLabResult, error) {
	labID, err := r.createLab(ctx, title, description)
	if err != nil {
		return nil, err
	}

	nodes := r.client.Nodes()

	router1, err := nodes.CreateRouter(ctx, labID, "Router1", 50, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to create Router1: %w", err)
	}

	router2, err := nodes.CreateRouter(ctx, labID, "Router2", 200, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to create Router2: %w", err)
	}

	link, err := r.client.Links().LinkNodes(ctx, labID, router1.ID(), router2.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to link routers: %w", err)
	}

	err = nodes.Configure(ctx, labID, router1.ID(), configgen.OSPFRouter("Router1", "10.0.0.1"))
	if err != nil {
		return nil, fmt.Errorf("failed to configure Router1: %w", err)
	}

	err = nodes.Configure(ctx, labID, router2.ID(), configgen.OSPFRouter("Router2", "10.0.0.2"))
	if err != nil {
		return nil, fmt.Errorf("failed to configure Router2: %w", err)
	}

	return &OSPFLabResult{
		LabID:        labID,
		Title:        title,
		Router1ID:    router1.ID(),
		Router2ID:    router2.ID(),
		LinkID:       link.LinkID,
		Status:       constants.StatusSuccess,
		Instructions: "Lab created with OSPF routing between Router1 (10.0.0.1) and Router2 (10.0.0.2). Start the lab to test connectivity.",
	}, nil
}

func (r *Runner) createLab(ctx context.Context, title, description string) (string, error) {
	lab, err := r.client.Labs().Create(ctx, &cml.LabCreateRequest{Title: title, Description: description})
	if err != nil {
		return "", fmt.Errorf("failed to create lab: %w", err)
	}

	r.logger.Info("Created lab", map[string]interface{}{
		"lab_id": lab.ID(),
		"title":  title,
	})

	return lab.ID(), nil
}

func linkDetails(link *cml.LinkResult) map[string]any {
	return map[string]any{
		"link_id":     link.LinkID,
		"interface_a": link.InterfaceA,
		"interface_b": link.InterfaceB,
		"strategy":    link.Strategy,
	}
}
