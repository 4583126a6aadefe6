// Package resources implements MCP resource handlers: read-only
// documents the host can pull in for context, addressed by URI.
package resources

import (
	"context"
	_ "embed"

	"github.com/mark3labs/mcp-go/mcp"
)

//go:embed workflow_guide.md
var workflowGuide string

//go:embed api_reference.md
var apiReference string

// Handler serves the static documentation resources.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// WorkflowGuideResource returns the resource definition for the
// development workflow guide.
func (h *Handler) WorkflowGuideResource() mcp.Resource {
	return mcp.NewResource(
		"guide://workflow",
		"Development Workflow Guide",
		mcp.WithResourceDescription("Step-by-step guide for the Jira-to-GitHub development workflow"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleWorkflowGuide serves the workflow guide.
func (h *Handler) HandleWorkflowGuide(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return markdownResource(req.Params.URI, workflowGuide), nil
}

// APIReferenceResource returns the resource definition for the tool
// reference.
func (h *Handler) APIReferenceResource() mcp.Resource {
	return mcp.NewResource(
		"docs://api",
		"Tool Reference",
		mcp.WithResourceDescription("Reference for every Jira, GitHub, and git tool this server exposes"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleAPIReference serves the tool reference.
func (h *Handler) HandleAPIReference(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return markdownResource(req.Params.URI, apiReference), nil
}

func markdownResource(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}
}
