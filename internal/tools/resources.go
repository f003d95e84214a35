package tools

import (
	"context"

	"github.com/fivetwenty-io/cml-mcp/internal/configgen"
	"github.com/mark3labs/mcp-go/mcp"
)

const textMIMEType = "text/plain"

func (s *Server) registerResources() {
	for _, template := range configgen.Templates() {
		s.mcp.AddResource(mcp.NewResource(template.URI, template.Name,
			mcp.WithResourceDescription(template.Description),
			mcp.WithMIMEType(textMIMEType),
		), templateHandler(template))
	}
}

func templateHandler(template configgen.Template) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      template.URI,
				MIMEType: textMIMEType,
				Text:     template.Text,
			},
		}, nil
	}
}

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt(configgen.PromptDescribeTopology,
		mcp.WithPromptDescription("Prompt for describing a lab topology"),
		mcp.WithArgument("lab_id", mcp.ArgumentDescription("ID of the lab to describe"), mcp.RequiredArgument()),
	), describeTopologyPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt(configgen.PromptCreateLab,
		mcp.WithPromptDescription("Prompt for creating a new lab"),
		mcp.WithArgument("requirements", mcp.ArgumentDescription("Requirements the lab must meet")),
	), createLabPrompt)
}

func describeTopologyPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return mcp.NewGetPromptResult("Describe a CML lab topology", []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(configgen.DescribeTopologyPrompt(request.Params.Arguments["lab_id"]))),
	}), nil
}

func createLabPrompt(_ context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return mcp.NewGetPromptResult("Design and build a CML lab", []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(configgen.CreateLabPrompt(request.Params.Arguments["requirements"]))),
	}), nil
}
