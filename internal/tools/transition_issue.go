package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/jira"
)

// TransitionIssueTool handles the jira_transition_issue MCP tool.
type TransitionIssueTool struct {
	jira JiraService
}

// NewTransitionIssueTool creates a TransitionIssueTool backed by the
// given client.
func NewTransitionIssueTool(jira JiraService) *TransitionIssueTool {
	return &TransitionIssueTool{jira: jira}
}

// Definition returns the MCP tool definition for registration.
func (t *TransitionIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_transition_issue",
		mcp.WithDescription(
			"Move an issue to another status using Jira workflow "+
				"transitions. The target is matched against the issue's "+
				"currently legal transitions; when nothing matches, the "+
				"available options are returned so the caller can pick one.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("The issue key, e.g. \"KAN-1\"."),
		),
		mcp.WithString("to_status",
			mcp.Required(),
			mcp.Description("Target status name, e.g. \"In Progress\" or \"Done\". Matching is case- and whitespace-insensitive."),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment to add while transitioning."),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Return the raw Jira API response instead of the simplified result."),
		),
	)
}

// transitionRefusal is the structured no-match reply. It is a normal
// tool result, not an error: an unreachable status is an answer the
// caller acts on, not a failure.
type transitionRefusal struct {
	OK                bool              `json:"ok"`
	Error             string            `json:"error"`
	IssueKey          string            `json:"issue_key"`
	RequestedToStatus string            `json:"requested_to_status"`
	Available         []jira.Transition `json:"available_transitions"`
}

type transitionSuccess struct {
	OK bool `json:"ok"`
	jira.ApplyResult
}

// Handle processes the jira_transition_issue tool call.
func (t *TransitionIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}
	toStatus := req.GetString("to_status", "")
	if toStatus == "" {
		return mcp.NewToolResultError("'to_status' is required"), nil
	}

	resolved, err := t.jira.ResolveTransition(ctx, issueKey, toStatus)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !resolved.Matched {
		return jsonResult(transitionRefusal{
			Error:             "no_matching_transition",
			IssueKey:          issueKey,
			RequestedToStatus: toStatus,
			Available:         resolved.Available,
		})
	}

	applied, err := t.jira.ApplyTransition(ctx, issueKey, resolved.Transition, req.GetString("comment", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.GetBool("raw", false) {
		return mcp.NewToolResultText(string(applied.Raw)), nil
	}
	return jsonResult(transitionSuccess{OK: true, ApplyResult: *applied})
}
