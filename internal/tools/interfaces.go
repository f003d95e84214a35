package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerInterfaceTools() {
	s.addSessionTool(mcp.NewTool("get_node_interfaces",
		mcp.WithDescription("Get interface IDs for a specific node"),
		labIDOption(),
		nodeIDOption(),
	), s.nodeInterfaces)

	s.addSessionTool(mcp.NewTool("get_physical_interfaces",
		mcp.WithDescription("Get all physical interfaces for a specific node"),
		labIDOption(),
		nodeIDOption(),
	), s.physicalInterfaces)

	s.addSessionTool(mcp.NewTool("create_interface",
		mcp.WithDescription("Create an interface on a node. The lab must not be running."),
		labIDOption(),
		nodeIDOption(),
		mcp.WithNumber("slot", mcp.DefaultNumber(constants.DefaultInterfaceSlot),
			mcp.Description("Slot number for the interface (default: 4)")),
	), s.createInterface)
}

func labAndNode(args arguments) (string, string, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return "", "", err
	}

	nodeID, err := args.requireString("node_id")
	if err != nil {
		return "", "", err
	}

	return labID, nodeID, nil
}

func (s *Server) nodeInterfaces(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, nodeID, err := labAndNode(args)
	if err != nil {
		return operationError("get_node_interfaces", err), nil
	}

	ids, err := session.Interfaces().List(ctx, labID, nodeID)
	if err != nil {
		return operationError("get_node_interfaces", err), nil
	}

	return jsonResult("get_node_interfaces", ids), nil
}

func (s *Server) physicalInterfaces(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, nodeID, err := labAndNode(args)
	if err != nil {
		return operationError("get_physical_interfaces", err), nil
	}

	interfaces, err := session.Interfaces().Physical(ctx, labID, nodeID)
	if err != nil {
		return operationError("get_physical_interfaces", err), nil
	}

	return jsonResult("get_physical_interfaces", interfaces), nil
}

func (s *Server) createInterface(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, nodeID, err := labAndNode(args)
	if err != nil {
		return operationError("create_interface", err), nil
	}

	slot, err := args.getInt("slot", constants.DefaultInterfaceSlot)
	if err != nil {
		return operationError("create_interface", err), nil
	}

	iface, err := session.Interfaces().Create(ctx, labID, nodeID, slot)
	if err != nil {
		return operationError("create_interface", err), nil
	}

	return jsonResult("create_interface", map[string]any{
		"interface_id": iface.ID(),
		"message": fmt.Sprintf("Created interface %s on node %s, slot %d",
			iface.String("label", iface.ID()), nodeID, slot),
		"status":  constants.StatusSuccess,
		"details": iface,
	}), nil
}
