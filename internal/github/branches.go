package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v80/github"
)

// Branch describes a created feature branch.
type Branch struct {
	IssueKey string `json:"issue_key"`
	Name     string `json:"branch_name"`
	Ref      string `json:"ref"`
}

// PullRequest describes a created pull request.
type PullRequest struct {
	IssueKey string `json:"issue_key"`
	Branch   string `json:"branch_name"`
	Number   int    `json:"pr_number"`
	URL      string `json:"pr_url"`
}

// DefaultBranchName returns the conventional feature branch name for
// an issue: feature/{issue-key-lowercased}.
func DefaultBranchName(issueKey string) string {
	return "feature/" + strings.ToLower(issueKey)
}

// CreateBranch creates a branch for an issue, pointing at the current
// head of the configured default branch. GitHub creates branches by
// pointing a new ref at an existing commit SHA, so the base ref is
// resolved first.
func (c *Client) CreateBranch(ctx context.Context, issueKey, branchName string) (*Branch, error) {
	if branchName == "" {
		branchName = DefaultBranchName(issueKey)
	}

	baseRef, _, err := c.git.GetRef(ctx, c.owner, c.repo, "refs/heads/"+c.defaultBranch)
	if err != nil {
		return nil, fmt.Errorf("resolving base branch %s: %w", c.defaultBranch, err)
	}
	baseSHA := baseRef.GetObject().GetSHA()
	if baseSHA == "" {
		return nil, fmt.Errorf("base branch %s has no commit SHA", c.defaultBranch)
	}

	created, _, err := c.git.CreateRef(ctx, c.owner, c.repo, github.CreateRef{
		Ref: "refs/heads/" + branchName,
		SHA: baseSHA,
	})
	if err != nil {
		return nil, fmt.Errorf("creating branch %s: %w", branchName, err)
	}

	return &Branch{
		IssueKey: issueKey,
		Name:     branchName,
		Ref:      created.GetRef(),
	}, nil
}

// CreatePullRequest opens a PR from branchName into the default
// branch. The issue key is kept in the description so the tracker can
// cross-link the PR; when the caller supplies a description without
// the key, a Closes footer is appended.
func (c *Client) CreatePullRequest(ctx context.Context, issueKey, branchName, title, description string) (*PullRequest, error) {
	if title == "" {
		title = fmt.Sprintf("%s: Pull request", issueKey)
	}
	if description == "" {
		description = fmt.Sprintf("Closes #%s\n\nThis PR addresses the task in issue **%s**.", issueKey, issueKey)
	} else if !strings.Contains(description, issueKey) {
		description += fmt.Sprintf("\n\nCloses #%s", issueKey)
	}

	pr, _, err := c.pulls.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(description),
		Head:  github.Ptr(branchName),
		Base:  github.Ptr(c.defaultBranch),
	})
	if err != nil {
		return nil, fmt.Errorf("creating pull request from %s: %w", branchName, err)
	}

	return &PullRequest{
		IssueKey: issueKey,
		Branch:   branchName,
		Number:   pr.GetNumber(),
		URL:      pr.GetHTMLURL(),
	}, nil
}
