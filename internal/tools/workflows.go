package tools

import (
	"context"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultSTPSwitches = 6

func (s *Server) registerWorkflowTools() {
	s.addSessionTool(mcp.NewTool("create_simple_network",
		mcp.WithDescription("Create a simple network lab with a router and switch"),
		mcp.WithString("title", mcp.DefaultString("Simple Network"), mcp.Description("Title for the new lab")),
		mcp.WithString("description", mcp.DefaultString("A simple network with a router and switch"),
			mcp.Description("Optional description for the lab")),
	), s.createSimpleNetwork)

	s.addSessionTool(mcp.NewTool("create_stp_lab",
		mcp.WithDescription("Create a comprehensive Spanning Tree Protocol test lab"),
		mcp.WithString("title", mcp.DefaultString("STP Test Lab"), mcp.Description("Title for the lab")),
		mcp.WithString("description", mcp.DefaultString("Spanning Tree Protocol test lab with multiple STP versions"),
			mcp.Description("Description for the lab")),
		mcp.WithNumber("num_switches", mcp.DefaultNumber(defaultSTPSwitches),
			mcp.Description("Number of switches to create, rounded to 2, 4 or 6 (default: 6)")),
		mcp.WithNumber("interfaces_per_switch", mcp.DefaultNumber(constants.DefaultSwitchInterfaces),
			mcp.Description("Number of interfaces per switch (default: 8)")),
	), s.createSTPLab)

	s.addSessionTool(mcp.NewTool("create_ospf_lab",
		mcp.WithDescription("Create a complete OSPF lab with two routers properly configured"),
		mcp.WithString("title", mcp.DefaultString("OSPF Network Lab"), mcp.Description("Title for the lab")),
		mcp.WithString("description", mcp.DefaultString("Two routers connected via OSPF"), mcp.Description("Lab description")),
	), s.createOSPFLab)
}

func (s *Server) createSimpleNetwork(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	result, err := s.runner(session).SimpleNetwork(ctx,
		args.getString("title", "Simple Network"),
		args.getString("description", "A simple network with a router and switch"))
	if err != nil {
		return operationError("create_simple_network", err), nil
	}

	return jsonResult("create_simple_network", result), nil
}

func (s *Server) createSTPLab(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	switches, err := args.getInt("num_switches", defaultSTPSwitches)
	if err != nil {
		return operationError("create_stp_lab", err), nil
	}

	interfaces, err := args.getInt("interfaces_per_switch", constants.DefaultSwitchInterfaces)
	if err != nil {
		return operationError("create_stp_lab", err), nil
	}

	result, err := s.runner(session).STPLab(ctx,
		args.getString("title", "STP Test Lab"),
		args.getString("description", "Spanning Tree Protocol test lab with multiple STP versions"),
		switches, interfaces)
	if err != nil {
		return operationError("create_stp_lab", err), nil
	}

	return jsonResult("create_stp_lab", result), nil
}

func (s *Server) createOSPFLab(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	result, err := s.runner(session).OSPFLab(ctx,
		args.getString("title", "OSPF Network Lab"),
		args.getString("description", "Two routers connected via OSPF"))
	if err != nil {
		return operationError("create_ospf_lab", err), nil
	}

	return jsonResult("create_ospf_lab", result), nil
}
