package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/github"
)

// MergePullRequestTool handles the merge_pull_request MCP tool.
type MergePullRequestTool struct {
	github GitHubService
}

// NewMergePullRequestTool creates a MergePullRequestTool backed by the
// given client.
func NewMergePullRequestTool(github GitHubService) *MergePullRequestTool {
	return &MergePullRequestTool{github: github}
}

// Definition returns the MCP tool definition for registration.
func (t *MergePullRequestTool) Definition() mcp.Tool {
	return mcp.NewTool("merge_pull_request",
		mcp.WithDescription(
			"Merge a pull request after validating its preconditions "+
				"against live repository state. Review objections are "+
				"always checked; CI status only when `check_status` is set.",
		),
		mcp.WithNumber("pr_number",
			mcp.Required(),
			mcp.Description("The pull request number to merge."),
		),
		mcp.WithString("merge_method",
			mcp.Description("Merge strategy: \"squash\" (default), \"merge\", or \"rebase\"."),
		),
		mcp.WithBoolean("check_status",
			mcp.Description("Validate CI status before merging. A repository without CI always passes."),
		),
	)
}

// Handle processes the merge_pull_request tool call. Gate refusals
// come back as structured tool errors naming the failed condition, so
// the caller can tell a policy refusal from a transport failure.
func (t *MergePullRequestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prNumber := int(req.GetFloat("pr_number", 0))
	if prNumber <= 0 {
		return mcp.NewToolResultError("'pr_number' is required and must be positive"), nil
	}

	result, err := t.github.EvaluateAndMerge(ctx, prNumber,
		req.GetString("merge_method", ""), req.GetBool("check_status", false))
	if err != nil {
		var pre *github.PreconditionError
		if errors.As(err, &pre) {
			refusal, jsonErr := jsonResult(map[string]any{
				"ok":        false,
				"error":     pre.Condition,
				"pr_number": pre.PRNumber,
				"detail":    pre.Detail,
			})
			if jsonErr != nil {
				return nil, jsonErr
			}
			refusal.IsError = true
			return refusal, nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"ok":         true,
		"pr_number":  result.PRNumber,
		"title":      result.Title,
		"commit_sha": result.SHA,
		"message":    fmt.Sprintf("PR #%d merged successfully with %s strategy", result.PRNumber, result.Method),
	})
}
