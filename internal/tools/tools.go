// Package tools implements the MCP tool handlers for the issue
// workflow: Jira reads and workflow transitions, GitHub branch, PR,
// and merge operations, and local git commit-and-push.
//
// Each tool is a struct that receives its dependencies as a narrow
// interface and exposes a Definition for registration plus a Handle
// compatible with mcp-go's CallToolRequest signature.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pvaldes/issueflow/internal/git"
	"github.com/pvaldes/issueflow/internal/github"
	"github.com/pvaldes/issueflow/internal/jira"
)

// JiraService is the slice of the Jira client the tools depend on.
type JiraService interface {
	GetIssue(ctx context.Context, issueKey string, extraFields []string) (json.RawMessage, error)
	SearchIssues(ctx context.Context, req jira.SearchRequest) (json.RawMessage, error)
	MyIssues(ctx context.Context, req jira.MyIssuesRequest) (json.RawMessage, error)
	ResolveTransition(ctx context.Context, issueKey, targetStatus string) (*jira.TransitionResult, error)
	ApplyTransition(ctx context.Context, issueKey string, tr jira.Transition, comment string) (*jira.ApplyResult, error)
}

// GitHubService is the slice of the GitHub client the tools depend on.
type GitHubService interface {
	CreateBranch(ctx context.Context, issueKey, branchName string) (*github.Branch, error)
	CreatePullRequest(ctx context.Context, issueKey, branchName, title, description string) (*github.PullRequest, error)
	EvaluateAndMerge(ctx context.Context, prNumber int, mergeMethod string, checkCI bool) (*github.MergeResult, error)
}

// GitRunner runs local repository operations.
type GitRunner interface {
	CommitAndPush(ctx context.Context, message, branch string) (*git.PushResult, error)
}

// jsonResult marshals v as indented JSON for the tool reply.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// splitFields parses a comma-separated field list, dropping empties.
func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
