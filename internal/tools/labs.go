package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

func labIDOption() mcp.ToolOption {
	return mcp.WithString("lab_id", mcp.Required(), mcp.Description("ID of the lab"))
}

func (s *Server) registerLabTools() {
	s.addSessionTool(mcp.NewTool("list_labs",
		mcp.WithDescription("List all labs in CML"),
	), s.listLabs)

	s.addSessionTool(mcp.NewTool("create_lab",
		mcp.WithDescription("Create a new lab in CML"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the new lab")),
		mcp.WithString("description", mcp.DefaultString(""), mcp.Description("Optional description for the lab")),
	), s.createLab)

	s.addSessionTool(mcp.NewTool("get_lab_details",
		mcp.WithDescription("Get detailed information about a specific lab"),
		labIDOption(),
	), s.labDetails)

	s.addSessionTool(mcp.NewTool("delete_lab",
		mcp.WithDescription("Delete a lab from CML, stopping it first when running"),
		labIDOption(),
	), s.labAction("delete_lab", "Lab %s deleted successfully", func(ctx context.Context, labs cml.LabsClient, id string) error {
		return labs.Delete(ctx, id)
	}))

	s.addSessionTool(mcp.NewTool("start_lab",
		mcp.WithDescription("Start the specified lab"),
		labIDOption(),
	), s.labAction("start_lab", "Lab %s started successfully", func(ctx context.Context, labs cml.LabsClient, id string) error {
		return labs.Start(ctx, id)
	}))

	s.addSessionTool(mcp.NewTool("stop_lab",
		mcp.WithDescription("Stop the specified lab"),
		labIDOption(),
	), s.labAction("stop_lab", "Lab %s stopped successfully", func(ctx context.Context, labs cml.LabsClient, id string) error {
		return labs.Stop(ctx, id)
	}))

	s.addSessionTool(mcp.NewTool("wait_for_lab_nodes",
		mcp.WithDescription("Wait for all nodes in a lab to reach the STARTED state"),
		labIDOption(),
		mcp.WithNumber("timeout", mcp.DefaultNumber(constants.DefaultNodeWaitTimeout.Seconds()),
			mcp.Description("Maximum time to wait in seconds (default: 60)")),
	), s.waitForLabNodes)

	s.addSessionTool(mcp.NewTool("get_lab_topology",
		mcp.WithDescription("Get a detailed summary of the lab topology"),
		labIDOption(),
	), s.labTopology)

	s.addSessionTool(mcp.NewTool("list_node_definitions",
		mcp.WithDescription("List all available node definitions in CML"),
	), s.listNodeDefinitions)
}

func (s *Server) listLabs(ctx context.Context, session cml.Client, _ arguments) (*mcp.CallToolResult, error) {
	labs, err := session.Labs().List(ctx)
	if err != nil {
		return operationError("list_labs", err), nil
	}

	return mcp.NewToolResultText(FormatLabList(labs)), nil
}

// FormatLabList renders labs the way list_labs reports them.
func FormatLabList(labs cml.Collection) string {
	if len(labs) == 0 {
		return "No labs found in CML."
	}

	var b strings.Builder

	b.WriteString("Available Labs:\n\n")

	for _, id := range labs.IDs() {
		lab := labs[id]
		fmt.Fprintf(&b, "- %s (ID: %s)\n", labTitle(lab), id)

		if description := lab.String("description", ""); description != "" {
			fmt.Fprintf(&b, "  Description: %s\n", description)
		}

		fmt.Fprintf(&b, "  State: %s\n", lab.String("state", constants.Unknown))
	}

	return b.String()
}

// labTitle prefers "title" and falls back to "lab_title".
func labTitle(lab cml.Entity) string {
	return lab.String("title", lab.String("lab_title", constants.Untitled))
}

func (s *Server) createLab(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	title, err := args.requireString("title")
	if err != nil {
		return operationError("create_lab", err), nil
	}

	lab, err := session.Labs().Create(ctx, &cml.LabCreateRequest{
		Title:       title,
		Description: args.getString("description", ""),
	})
	if err != nil {
		return operationError("create_lab", err), nil
	}

	return jsonResult("create_lab", map[string]any{
		"lab_id":  lab.ID(),
		"message": fmt.Sprintf("Created lab '%s' with ID: %s", title, lab.ID()),
		"status":  constants.StatusSuccess,
	}), nil
}

func (s *Server) labDetails(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("get_lab_details", err), nil
	}

	lab, err := session.Labs().Get(ctx, labID)
	if err != nil {
		return operationError("get_lab_details", err), nil
	}

	return jsonResult("get_lab_details", lab), nil
}

// labAction wraps a lifecycle call that reports a fixed confirmation.
func (s *Server) labAction(operation, confirmation string, action func(context.Context, cml.LabsClient, string) error) sessionHandler {
	return func(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
		labID, err := args.requireString("lab_id")
		if err != nil {
			return operationError(operation, err), nil
		}

		err = action(ctx, session.Labs(), labID)
		if err != nil {
			return operationError(operation, err), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(confirmation, labID)), nil
	}
}

func (s *Server) waitForLabNodes(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("wait_for_lab_nodes", err), nil
	}

	seconds, err := args.getInt("timeout", int(constants.DefaultNodeWaitTimeout.Seconds()))
	if err != nil {
		return operationError("wait_for_lab_nodes", err), nil
	}

	result, err := session.Labs().WaitForNodes(ctx, labID, time.Duration(seconds)*time.Second)
	if err != nil {
		return operationError("wait_for_lab_nodes", err), nil
	}

	return mcp.NewToolResultText(result.Message()), nil
}

func (s *Server) labTopology(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("get_lab_topology", err), nil
	}

	topology, err := session.Labs().Topology(ctx, labID)
	if err != nil {
		return operationError("get_lab_topology", err), nil
	}

	return mcp.NewToolResultText(topology.Summary()), nil
}

func (s *Server) listNodeDefinitions(ctx context.Context, session cml.Client, _ arguments) (*mcp.CallToolResult, error) {
	definitions, err := session.NodeDefinitions().List(ctx)
	if err != nil {
		return operationError("list_node_definitions", err), nil
	}

	return jsonResult("list_node_definitions", definitions), nil
}
