package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

func nodeIDOption() mcp.ToolOption {
	return mcp.WithString("node_id", mcp.Required(), mcp.Description("ID of the node"))
}

func coordinateOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("x", mcp.DefaultNumber(0), mcp.Description("X coordinate for node placement")),
		mcp.WithNumber("y", mcp.DefaultNumber(0), mcp.Description("Y coordinate for node placement")),
	}
}

func (s *Server) registerNodeTools() {
	s.addSessionTool(mcp.NewTool("get_lab_nodes",
		mcp.WithDescription("Get all nodes in a specific lab"),
		labIDOption(),
	), s.labNodes)

	addNode := []mcp.ToolOption{
		mcp.WithDescription("Add a node to the specified lab"),
		labIDOption(),
		mcp.WithString("label", mcp.Required(), mcp.Description("Label for the new node")),
		mcp.WithString("node_definition", mcp.Required(), mcp.Description("Type of node (e.g., 'iosv', 'csr1000v')")),
	}
	addNode = append(addNode, coordinateOptions()...)
	addNode = append(addNode,
		mcp.WithBoolean("populate_interfaces", mcp.DefaultBool(true), mcp.Description("Whether to automatically create interfaces")),
		mcp.WithNumber("ram", mcp.Description("RAM allocation for the node (optional)")),
		mcp.WithNumber("cpu_limit", mcp.Description("CPU limit for the node (optional)")),
		mcp.WithObject("parameters", mcp.Description("Node-specific parameters (optional)")),
	)
	s.addSessionTool(mcp.NewTool("add_node", addNode...), s.addNode)

	router := []mcp.ToolOption{
		mcp.WithDescription("Create a router with the 'iosv' node definition"),
		labIDOption(),
		mcp.WithString("label", mcp.Required(), mcp.Description("Label for the new router")),
	}
	s.addSessionTool(mcp.NewTool("create_router", append(router, coordinateOptions()...)...), s.createRouter)

	sw := []mcp.ToolOption{
		mcp.WithDescription("Create a switch with a specified number of interfaces"),
		labIDOption(),
		mcp.WithString("label", mcp.Required(), mcp.Description("Label for the new switch")),
		mcp.WithNumber("num_interfaces", mcp.DefaultNumber(constants.DefaultSwitchInterfaces),
			mcp.Description("Number of interfaces to create (default: 8)")),
	}
	s.addSessionTool(mcp.NewTool("create_switch", append(sw, coordinateOptions()...)...), s.createSwitch)
}

func (s *Server) labNodes(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("get_lab_nodes", err), nil
	}

	nodes, err := session.Nodes().List(ctx, labID)
	if err != nil {
		return operationError("get_lab_nodes", err), nil
	}

	return jsonResult("get_lab_nodes", nodes), nil
}

// nodeRequest reads the arguments shared by the node creation tools.
type nodeRequest struct {
	labID string
	label string
	x, y  int
}

func readNodeRequest(args arguments) (*nodeRequest, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return nil, err
	}

	label, err := args.requireString("label")
	if err != nil {
		return nil, err
	}

	x, err := args.getInt("x", 0)
	if err != nil {
		return nil, err
	}

	y, err := args.getInt("y", 0)
	if err != nil {
		return nil, err
	}

	return &nodeRequest{labID: labID, label: label, x: x, y: y}, nil
}

func (s *Server) addNode(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	request, err := readNodeRequest(args)
	if err != nil {
		return operationError("add_node", err), nil
	}

	definition, err := args.requireString("node_definition")
	if err != nil {
		return operationError("add_node", err), nil
	}

	ram, err := args.optionalInt("ram")
	if err != nil {
		return operationError("add_node", err), nil
	}

	cpuLimit, err := args.optionalInt("cpu_limit")
	if err != nil {
		return operationError("add_node", err), nil
	}

	parameters, err := args.stringMap("parameters")
	if err != nil {
		return operationError("add_node", err), nil
	}

	node, err := session.Nodes().Create(ctx, request.labID, &cml.NodeCreateRequest{
		Label:              request.label,
		NodeDefinition:     definition,
		X:                  request.x,
		Y:                  request.y,
		Parameters:         parameters,
		RAM:                ram,
		CPULimit:           cpuLimit,
		PopulateInterfaces: args.getBool("populate_interfaces", true),
	})
	if err != nil {
		return operationError("add_node", err), nil
	}

	return nodeResult("add_node", request.label, node), nil
}

func (s *Server) createRouter(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	request, err := readNodeRequest(args)
	if err != nil {
		return operationError("create_router", err), nil
	}

	node, err := session.Nodes().CreateRouter(ctx, request.labID, request.label, request.x, request.y)
	if err != nil {
		return operationError("create_router", err), nil
	}

	return nodeResult("create_router", request.label, node), nil
}

func (s *Server) createSwitch(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	request, err := readNodeRequest(args)
	if err != nil {
		return operationError("create_switch", err), nil
	}

	interfaces, err := args.getInt("num_interfaces", constants.DefaultSwitchInterfaces)
	if err != nil {
		return operationError("create_switch", err), nil
	}

	node, err := session.Nodes().CreateSwitch(ctx, request.labID, request.label, interfaces, request.x, request.y)
	if err != nil {
		return operationError("create_switch", err), nil
	}

	return nodeResult("create_switch", request.label, node), nil
}

func nodeResult(operation, label string, node cml.Entity) *mcp.CallToolResult {
	return jsonResult(operation, map[string]any{
		"node_id": node.ID(),
		"message": fmt.Sprintf("Added node '%s' with ID: %s", label, node.ID()),
		"status":  constants.StatusSuccess,
		"details": node,
	})
}
