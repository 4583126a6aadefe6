package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/jira"
)

// SearchIssuesTool handles the jira_search_issues MCP tool.
type SearchIssuesTool struct {
	jira JiraService
}

// NewSearchIssuesTool creates a SearchIssuesTool backed by the given client.
func NewSearchIssuesTool(jira JiraService) *SearchIssuesTool {
	return &SearchIssuesTool{jira: jira}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_search_issues",
		mcp.WithDescription(
			"Search Jira issues with a JQL query. Supports pagination "+
				"via `next_page_token` from a previous result.",
		),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query, e.g. 'project = \"KAN\" AND status = \"Open\"'."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default 10)."),
		),
		mcp.WithString("next_page_token",
			mcp.Description("Pagination token from a previous search."),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated extra fields to include beyond the defaults."),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Return the unformatted Jira API response."),
		),
	)
}

// Handle processes the jira_search_issues tool call.
func (t *SearchIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := req.GetString("jql", "")
	if jql == "" {
		return mcp.NewToolResultError("'jql' is required"), nil
	}

	payload, err := t.jira.SearchIssues(ctx, jira.SearchRequest{
		JQL:           jql,
		MaxResults:    int(req.GetFloat("max_results", 0)),
		NextPageToken: req.GetString("next_page_token", ""),
		Fields:        splitFields(req.GetString("fields", "")),
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
