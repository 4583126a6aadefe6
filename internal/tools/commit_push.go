package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// CommitPushTool handles the git_commit_and_push MCP tool.
type CommitPushTool struct {
	git GitRunner
}

// NewCommitPushTool creates a CommitPushTool backed by the given runner.
func NewCommitPushTool(git GitRunner) *CommitPushTool {
	return &CommitPushTool{git: git}
}

// Definition returns the MCP tool definition for registration.
func (t *CommitPushTool) Definition() mcp.Tool {
	return mcp.NewTool("git_commit_and_push",
		mcp.WithDescription(
			"Stage all changes in the local working copy, commit them "+
				"with the given message, and push to origin.",
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The commit message."),
		),
		mcp.WithString("branch",
			mcp.Description("Target branch to push to. Defaults to the checked-out branch."),
		),
	)
}

// Handle processes the git_commit_and_push tool call.
func (t *CommitPushTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := req.GetString("message", "")
	if message == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}

	result, err := t.git.CommitAndPush(ctx, message, req.GetString("branch", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}
