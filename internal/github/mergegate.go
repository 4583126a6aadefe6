package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v80/github"
)

// Merge strategies accepted by GitHub.
const (
	MergeMethodMerge  = "merge"
	MergeMethodSquash = "squash"
	MergeMethodRebase = "rebase"
)

// PreconditionError is a structured merge refusal: the named gate
// condition failed, so the merge call was never made. It is an
// expected outcome, distinct from external call failures.
type PreconditionError struct {
	PRNumber  int
	Condition string
	Detail    string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot merge PR #%d: %s (%s)", e.PRNumber, e.Detail, e.Condition)
}

// MergeResult describes a completed merge.
type MergeResult struct {
	PRNumber int    `json:"pr_number"`
	Title    string `json:"title"`
	SHA      string `json:"commit_sha"`
	Method   string `json:"merge_method"`
}

// gateCheck is one named precondition. Checks run in order over a
// single fresh snapshot and short-circuit on the first refusal, so
// cheap, authoritative state checks always come before CI and review
// lookups, and nothing runs after a refusal.
type gateCheck struct {
	condition string
	run       func(ctx context.Context) (*PreconditionError, error)
}

// EvaluateAndMerge validates merge preconditions against freshly
// fetched server state and, only if every active check passes, invokes
// the merge.
//
// checkCI gates the CI validation only: review objections
// (CHANGES_REQUESTED) are checked unconditionally, because an explicit
// human objection must never be bypassed by a flag.
func (c *Client) EvaluateAndMerge(ctx context.Context, prNumber int, mergeMethod string, checkCI bool) (*MergeResult, error) {
	switch mergeMethod {
	case "":
		mergeMethod = MergeMethodSquash
	case MergeMethodMerge, MergeMethodSquash, MergeMethodRebase:
	default:
		return nil, fmt.Errorf("invalid merge method %q: use merge, squash, or rebase", mergeMethod)
	}

	snapshot, err := c.FetchPullRequest(ctx, prNumber)
	if err != nil {
		return nil, err
	}

	checks := []gateCheck{
		{
			condition: "already_merged",
			run: func(context.Context) (*PreconditionError, error) {
				if snapshot.Merged {
					return &PreconditionError{
						PRNumber:  prNumber,
						Condition: "already_merged",
						Detail:    "PR is already merged",
					}, nil
				}
				return nil, nil
			},
		},
		{
			condition: "not_open",
			run: func(context.Context) (*PreconditionError, error) {
				if snapshot.State != "open" {
					return &PreconditionError{
						PRNumber:  prNumber,
						Condition: "not_open",
						Detail:    fmt.Sprintf("PR is %s", snapshot.State),
					}, nil
				}
				return nil, nil
			},
		},
	}

	if checkCI {
		checks = append(checks, gateCheck{
			condition: "ci_status",
			run: func(ctx context.Context) (*PreconditionError, error) {
				return c.checkCIStatus(ctx, snapshot)
			},
		})
	}

	checks = append(checks, gateCheck{
		condition: "changes_requested",
		run: func(ctx context.Context) (*PreconditionError, error) {
			return c.checkReviews(ctx, snapshot)
		},
	})

	for _, check := range checks {
		refusal, err := check.run(ctx)
		if err != nil {
			return nil, err
		}
		if refusal != nil {
			return nil, refusal
		}
	}

	return c.executeMerge(ctx, snapshot, mergeMethod)
}

// checkCIStatus refuses on a missing head SHA, failing checks (naming
// every failing context), or pending checks. Success passes, and so
// does the absence of any configured CI: repositories without CI must
// not be permanently blocked.
func (c *Client) checkCIStatus(ctx context.Context, snapshot *PullRequestSnapshot) (*PreconditionError, error) {
	if snapshot.HeadSHA == "" {
		return &PreconditionError{
			PRNumber:  snapshot.Number,
			Condition: "missing_head_sha",
			Detail:    "missing head commit SHA",
		}, nil
	}

	status, err := c.FetchCommitStatus(ctx, snapshot.HeadSHA)
	if err != nil {
		return nil, err
	}

	switch status.State {
	case "failure", "error":
		return &PreconditionError{
			PRNumber:  snapshot.Number,
			Condition: "ci_failed",
			Detail:    fmt.Sprintf("CI checks failed (%s)", strings.Join(status.FailingContexts, ", ")),
		}, nil
	case "pending":
		return &PreconditionError{
			PRNumber:  snapshot.Number,
			Condition: "ci_pending",
			Detail:    "CI checks still pending",
		}, nil
	}
	return nil, nil
}

// checkReviews refuses when any reviewer's decision is
// CHANGES_REQUESTED, naming every objecting reviewer.
func (c *Client) checkReviews(ctx context.Context, snapshot *PullRequestSnapshot) (*PreconditionError, error) {
	reviews, err := c.FetchReviews(ctx, snapshot.Number)
	if err != nil {
		return nil, err
	}

	var objecting []string
	for _, r := range reviews {
		if r.State == "CHANGES_REQUESTED" {
			objecting = append(objecting, r.Reviewer)
		}
	}
	if len(objecting) > 0 {
		return &PreconditionError{
			PRNumber:  snapshot.Number,
			Condition: "changes_requested",
			Detail:    fmt.Sprintf("changes requested by %s", strings.Join(objecting, ", ")),
		}, nil
	}
	return nil, nil
}

// executeMerge performs the actual merge. Failures here (a conflict
// introduced concurrently, typically) are terminal: they need human
// resolution, so they are reported and never retried.
func (c *Client) executeMerge(ctx context.Context, snapshot *PullRequestSnapshot, mergeMethod string) (*MergeResult, error) {
	message := fmt.Sprintf("Merge PR #%d: %s\n\nAutomatically merged by issueflow", snapshot.Number, snapshot.Title)
	opts := &github.PullRequestOptions{
		CommitTitle: snapshot.Title,
		MergeMethod: mergeMethod,
	}

	result, _, err := c.pulls.Merge(ctx, c.owner, c.repo, snapshot.Number, message, opts)
	if err != nil {
		return nil, fmt.Errorf("merging PR #%d: %w", snapshot.Number, err)
	}

	return &MergeResult{
		PRNumber: snapshot.Number,
		Title:    snapshot.Title,
		SHA:      result.GetSHA(),
		Method:   mergeMethod,
	}, nil
}
