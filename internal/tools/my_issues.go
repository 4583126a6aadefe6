package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/jira"
)

// MyIssuesTool handles the jira_get_my_issues MCP tool.
type MyIssuesTool struct {
	jira JiraService
}

// NewMyIssuesTool creates a MyIssuesTool backed by the given client.
func NewMyIssuesTool(jira JiraService) *MyIssuesTool {
	return &MyIssuesTool{jira: jira}
}

// Definition returns the MCP tool definition for registration.
func (t *MyIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_get_my_issues",
		mcp.WithDescription(
			"List issues assigned to the authenticated user, highest "+
				"priority and most recently updated first. Optionally "+
				"filter by status and issue type.",
		),
		mcp.WithString("status",
			mcp.Description("Filter by status, e.g. \"To Do\" or \"In Progress\"."),
		),
		mcp.WithString("issue_type",
			mcp.Description("Filter by issue type, e.g. \"Bug\" or \"Story\"."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default 50)."),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated extra fields to include beyond the defaults."),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Return the unformatted Jira API response."),
		),
	)
}

// Handle processes the jira_get_my_issues tool call.
func (t *MyIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := t.jira.MyIssues(ctx, jira.MyIssuesRequest{
		Status:     req.GetString("status", ""),
		IssueType:  req.GetString("issue_type", ""),
		MaxResults: int(req.GetFloat("max_results", 0)),
		Fields:     splitFields(req.GetString("fields", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetBool("raw", false) {
		return mcp.NewToolResultText(string(payload)), nil
	}

	list, err := jira.FormatIssueList(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(list)
}
