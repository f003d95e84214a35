package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/configgen"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerConfigTools() {
	s.addSessionTool(mcp.NewTool("configure_node",
		mcp.WithDescription("Configure a node with the specified configuration"),
		labIDOption(),
		nodeIDOption(),
		mcp.WithString("config", mcp.Required(), mcp.Description("Configuration text to apply")),
	), s.configureNode)

	s.addSessionTool(mcp.NewTool("get_node_config",
		mcp.WithDescription("Get the current configuration of a node"),
		labIDOption(),
		nodeIDOption(),
	), s.nodeConfig)

	defaultVLANs := make([]any, 0, len(configgen.DefaultVLANs))
	for _, vlan := range configgen.DefaultVLANs {
		defaultVLANs = append(defaultVLANs, vlan)
	}

	s.addTool(mcp.NewTool("generate_switch_stp_config",
		mcp.WithDescription("Generate Spanning Tree Protocol configuration for a switch"),
		mcp.WithString("switch_name", mcp.Required(), mcp.Description("Name of the switch")),
		mcp.WithString("stp_mode", mcp.DefaultString(string(configgen.STPModeMST)),
			mcp.Enum(string(configgen.STPModeMST), string(configgen.STPModeRapidPVST), string(configgen.STPModePVST)),
			mcp.Description("STP mode to configure")),
		mcp.WithString("role", mcp.DefaultString(string(configgen.STPRoleRoot)),
			mcp.Enum(string(configgen.STPRoleRoot), string(configgen.STPRoleSecondary), string(configgen.STPRoleNormal)),
			mcp.Description("Role of the switch")),
		mcp.WithArray("vlans", mcp.Items(map[string]any{"type": "integer", "default": defaultVLANs}),
			mcp.Description("List of VLANs to configure (default: 1, 10, 20, 30, 40)")),
		mcp.WithObject("mst_instance_mapping",
			mcp.Description("For MST mode, mapping of MST instance numbers to VLAN lists")),
	), s.generateSTPConfig)
}

func (s *Server) configureNode(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, nodeID, err := labAndNode(args)
	if err != nil {
		return operationError("configure_node", err), nil
	}

	config, err := args.requireString("config")
	if err != nil {
		return operationError("configure_node", err), nil
	}

	err = session.Nodes().Configure(ctx, labID, nodeID, config)
	if err != nil {
		return operationError("configure_node", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Configuration applied to node %s", nodeID)), nil
}

func (s *Server) nodeConfig(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, nodeID, err := labAndNode(args)
	if err != nil {
		return operationError("get_node_config", err), nil
	}

	config, err := session.Nodes().GetConfig(ctx, labID, nodeID)
	if err != nil {
		return operationError("get_node_config", err), nil
	}

	return mcp.NewToolResultText(config), nil
}

func (s *Server) generateSTPConfig(_ context.Context, args arguments) (*mcp.CallToolResult, error) {
	switchName, err := args.requireString("switch_name")
	if err != nil {
		return operationError("generate_switch_stp_config", err), nil
	}

	vlans, err := args.intSlice("vlans", configgen.DefaultVLANs)
	if err != nil {
		return operationError("generate_switch_stp_config", err), nil
	}

	instances, err := args.instanceMap("mst_instance_mapping")
	if err != nil {
		return operationError("generate_switch_stp_config", err), nil
	}

	config, err := configgen.GenerateSTP(configgen.STPOptions{
		SwitchName:   switchName,
		Mode:         configgen.ParseSTPMode(args.getString("stp_mode", string(configgen.STPModeMST))),
		Role:         configgen.ParseSTPRole(args.getString("role", string(configgen.STPRoleRoot))),
		VLANs:        vlans,
		MSTInstances: instances,
	})
	if err != nil {
		return operationError("generate_switch_stp_config", err), nil
	}

	return mcp.NewToolResultText(config), nil
}
