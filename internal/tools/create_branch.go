package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// CreateBranchTool handles the create_branch_for_issue MCP tool.
type CreateBranchTool struct {
	github GitHubService
}

// NewCreateBranchTool creates a CreateBranchTool backed by the given client.
func NewCreateBranchTool(github GitHubService) *CreateBranchTool {
	return &CreateBranchTool{github: github}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateBranchTool) Definition() mcp.Tool {
	return mcp.NewTool("create_branch_for_issue",
		mcp.WithDescription(
			"Create a feature branch for a Jira issue off the repository's "+
				"default branch. The branch name defaults to "+
				"feature/{issue-key-lowercased}.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The issue key the branch belongs to, e.g. \"PROJ-123\"."),
		),
		mcp.WithString("branch_name",
			mcp.Description("Explicit branch name. Defaults to feature/{issue-key}."),
		),
	)
}

// Handle processes the create_branch_for_issue tool call.
func (t *CreateBranchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	branch, err := t.github.CreateBranch(ctx, issueKey, req.GetString("branch_name", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(branch)
}
