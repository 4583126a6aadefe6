// Package github implements the GitHub repository operations for the
// workflow tools: branch and pull request creation, and the merge gate
// that validates preconditions before the irreversible merge call.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/pvaldes/issueflow/internal/config"
)

// Narrow views of the go-github services we use, so tests can swap in
// hand-written mocks without a network.

type PullRequestsService interface {
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	ListReviews(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error)
	Merge(ctx context.Context, owner, repo string, number int, commitMessage string, options *github.PullRequestOptions) (*github.PullRequestMergeResult, *github.Response, error)
}

type RepositoriesService interface {
	GetCombinedStatus(ctx context.Context, owner, repo, ref string, opts *github.ListOptions) (*github.CombinedStatus, *github.Response, error)
}

type GitService interface {
	GetRef(ctx context.Context, owner, repo, ref string) (*github.Reference, *github.Response, error)
	CreateRef(ctx context.Context, owner, repo string, ref github.CreateRef) (*github.Reference, *github.Response, error)
}

// Client executes GitHub operations against one configured repository.
type Client struct {
	pulls         PullRequestsService
	repos         RepositoriesService
	git           GitService
	owner         string
	repo          string
	defaultBranch string
}

// NewClient builds a Client from config, authenticating with the
// pre-supplied token via oauth2.
func NewClient(cfg *config.GitHubConfig) (*Client, error) {
	owner, repo, err := cfg.RepoInfo()
	if err != nil {
		return nil, err
	}

	var hc *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
	}
	gh := github.NewClient(hc)

	return &Client{
		pulls:         gh.PullRequests,
		repos:         gh.Repositories,
		git:           gh.Git,
		owner:         owner,
		repo:          repo,
		defaultBranch: cfg.DefaultBranch,
	}, nil
}

// NewClientWithServices wires explicit service implementations. Used by
// tests and anywhere the real transport is unwanted.
func NewClientWithServices(pulls PullRequestsService, repos RepositoriesService, git GitService, owner, repo, defaultBranch string) *Client {
	return &Client{
		pulls:         pulls,
		repos:         repos,
		git:           git,
		owner:         owner,
		repo:          repo,
		defaultBranch: defaultBranch,
	}
}

// PullRequestSnapshot is the state of a PR at gate-check time. It is
// fetched once per merge attempt and never mutated; a retry starts
// from a fresh snapshot.
type PullRequestSnapshot struct {
	Number  int    `json:"number"`
	State   string `json:"state"`
	Merged  bool   `json:"merged"`
	HeadSHA string `json:"head_sha"`
	Title   string `json:"title"`
}

// CommitStatus is the aggregate CI state for a commit, with the names
// of every failing check context.
type CommitStatus struct {
	State           string   `json:"state"`
	FailingContexts []string `json:"failing_contexts,omitempty"`
}

// Review is one reviewer decision on a PR.
type Review struct {
	Reviewer string `json:"reviewer"`
	State    string `json:"state"`
}

// FetchPullRequest reads the current PR state.
func (c *Client) FetchPullRequest(ctx context.Context, number int) (*PullRequestSnapshot, error) {
	pr, _, err := c.pulls.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching PR #%d: %w", number, err)
	}
	return &PullRequestSnapshot{
		Number:  number,
		State:   pr.GetState(),
		Merged:  pr.GetMerged(),
		HeadSHA: pr.GetHead().GetSHA(),
		Title:   pr.GetTitle(),
	}, nil
}

// FetchCommitStatus reads the combined CI status for a commit. A repo
// with no configured checks reports an empty status list; GitHub marks
// that combined state "pending", but with zero checks there is nothing
// to wait for, so it is treated as success.
func (c *Client) FetchCommitStatus(ctx context.Context, sha string) (*CommitStatus, error) {
	combined, _, err := c.repos.GetCombinedStatus(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching commit status for %s: %w", sha, err)
	}

	status := &CommitStatus{State: combined.GetState()}
	if len(combined.Statuses) == 0 {
		status.State = "success"
		return status, nil
	}
	for _, s := range combined.Statuses {
		if s.GetState() == "failure" || s.GetState() == "error" {
			status.FailingContexts = append(status.FailingContexts, s.GetContext())
		}
	}
	return status, nil
}

// FetchReviews reads all review decisions for a PR.
func (c *Client) FetchReviews(ctx context.Context, number int) ([]Review, error) {
	reviews, _, err := c.pulls.ListReviews(ctx, c.owner, c.repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching reviews for PR #%d: %w", number, err)
	}

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, Review{
			Reviewer: r.GetUser().GetLogin(),
			State:    r.GetState(),
		})
	}
	return out, nil
}
