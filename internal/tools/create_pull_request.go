package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// CreatePullRequestTool handles the create_pull_request MCP tool.
type CreatePullRequestTool struct {
	github GitHubService
}

// NewCreatePullRequestTool creates a CreatePullRequestTool backed by
// the given client.
func NewCreatePullRequestTool(github GitHubService) *CreatePullRequestTool {
	return &CreatePullRequestTool{github: github}
}

// Definition returns the MCP tool definition for registration.
func (t *CreatePullRequestTool) Definition() mcp.Tool {
	return mcp.NewTool("create_pull_request",
		mcp.WithDescription(
			"Open a pull request from a feature branch into the "+
				"repository's default branch, cross-linked to its Jira "+
				"issue via a Closes footer.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The issue key the PR addresses, e.g. \"PROJ-123\"."),
		),
		mcp.WithString("branch_name",
			mcp.Required(),
			mcp.Description("The head branch containing the changes."),
		),
		mcp.WithString("title",
			mcp.Description("PR title. Defaults to \"{issue_key}: Pull request\"."),
		),
		mcp.WithString("description",
			mcp.Description("PR description. The issue key is appended when missing."),
		),
	)
}

// Handle processes the create_pull_request tool call.
func (t *CreatePullRequestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}
	branchName := req.GetString("branch_name", "")
	if branchName == "" {
		return mcp.NewToolResultError("'branch_name' is required"), nil
	}

	pr, err := t.github.CreatePullRequest(ctx, issueKey, branchName,
		req.GetString("title", ""), req.GetString("description", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(pr)
}
