package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/jira"
)

// GetIssueTool handles the jira_get_issue MCP tool.
type GetIssueTool struct {
	jira JiraService
}

// NewGetIssueTool creates a GetIssueTool backed by the given client.
func NewGetIssueTool(jira JiraService) *GetIssueTool {
	return &GetIssueTool{jira: jira}
}

// Definition returns the MCP tool definition for registration.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_get_issue",
		mcp.WithDescription(
			"Retrieve a single Jira issue by its key. Returns a compact "+
				"view with summary, status, assignee, and description by "+
				"default; set `raw` for the full API response.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The issue key, e.g. \"KAN-1\" or \"PROJ-42\"."),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated extra fields to fetch beyond the defaults."),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Return the unformatted Jira API response."),
		),
	)
}

// Handle processes the jira_get_issue tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	payload, err := t.jira.GetIssue(ctx, issueKey, splitFields(req.GetString("fields", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("raw", false) {
		return mcp.NewToolResultText(string(payload)), nil
	}

	issue, err := jira.FormatIssue(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(issue)
}
