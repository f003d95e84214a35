package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/client"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerLinkTools() {
	s.addSessionTool(mcp.NewTool("create_link_v3",
		mcp.WithDescription("Create a link between two interfaces in a lab"),
		labIDOption(),
		mcp.WithString("interface_id_a", mcp.Required(), mcp.Description("ID of the first interface")),
		mcp.WithString("interface_id_b", mcp.Required(), mcp.Description("ID of the second interface")),
	), s.createLink)

	s.addSessionTool(mcp.NewTool("link_nodes",
		mcp.WithDescription("Create a link between two nodes by automatically selecting available interfaces"),
		labIDOption(),
		mcp.WithString("node_id_a", mcp.Required(), mcp.Description("ID of the first node")),
		mcp.WithString("node_id_b", mcp.Required(), mcp.Description("ID of the second node")),
	), s.linkNodes)

	s.addSessionTool(mcp.NewTool("get_lab_links",
		mcp.WithDescription("Get all links in a specific lab"),
		labIDOption(),
	), s.labLinks)

	s.addSessionTool(mcp.NewTool("delete_link",
		mcp.WithDescription("Delete a link from a lab"),
		labIDOption(),
		mcp.WithString("link_id", mcp.Required(), mcp.Description("ID of the link to delete")),
	), s.deleteLink)
}

func (s *Server) createLink(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("create_link", err), nil
	}

	interfaceA, err := args.requireString("interface_id_a")
	if err != nil {
		return operationError("create_link", err), nil
	}

	interfaceB, err := args.requireString("interface_id_b")
	if err != nil {
		return operationError("create_link", err), nil
	}

	link, err := session.Links().Create(ctx, labID, interfaceA, interfaceB)
	if err != nil {
		return operationError("create_link", err), nil
	}

	return linkResult("create_link", link), nil
}

func (s *Server) linkNodes(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("link_nodes", err), nil
	}

	nodeA, err := args.requireString("node_id_a")
	if err != nil {
		return operationError("link_nodes", err), nil
	}

	nodeB, err := args.requireString("node_id_b")
	if err != nil {
		return operationError("link_nodes", err), nil
	}

	link, err := session.Links().LinkNodes(ctx, labID, nodeA, nodeB)
	if err != nil {
		return operationError("link_nodes", err), nil
	}

	return linkResult("link_nodes", link), nil
}

func linkResult(operation string, link *cml.LinkResult) *mcp.CallToolResult {
	message := fmt.Sprintf("Created link between interfaces %s and %s", link.InterfaceA, link.InterfaceB)
	if link.Strategy != client.DefaultLinkStrategies[0].Name {
		message += " using alternative format"
	}

	return jsonResult(operation, map[string]any{
		"link_id":  link.LinkID,
		"message":  message,
		"status":   constants.StatusSuccess,
		"strategy": link.Strategy,
		"details":  link.Details,
	})
}

func (s *Server) labLinks(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("get_lab_links", err), nil
	}

	links, err := session.Links().List(ctx, labID)
	if err != nil {
		return operationError("get_lab_links", err), nil
	}

	return jsonResult("get_lab_links", links), nil
}

func (s *Server) deleteLink(ctx context.Context, session cml.Client, args arguments) (*mcp.CallToolResult, error) {
	labID, err := args.requireString("lab_id")
	if err != nil {
		return operationError("delete_link", err), nil
	}

	linkID, err := args.requireString("link_id")
	if err != nil {
		return operationError("delete_link", err), nil
	}

	err = session.Links().Delete(ctx, labID, linkID)
	if err != nil {
		return operationError("delete_link", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Link %s deleted successfully", linkID)), nil
}
