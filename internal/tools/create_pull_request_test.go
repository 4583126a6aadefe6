package tools

import (
	"context"
	"testing"

	"github.com/pvaldes/issueflow/internal/github"
)

func TestCreatePullRequestTool(t *testing.T) {
	t.Run("creates PR", func(t *testing.T) {
		ghFake := &fakeGitHub{pr: &github.PullRequest{
			IssueKey: "PROJ-1",
			Branch:   "feature/proj-1",
			Number:   42,
			URL:      "https://github.com/acme/widgets/pull/42",
		}}
		tool := NewCreatePullRequestTool(ghFake)

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"issue_key":   "PROJ-1",
			"branch_name": "feature/proj-1",
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected tool error: %s", getResultText(result))
		}

		var got github.PullRequest
		decodeResult(t, result, &got)
		if got.Number != 42 || got.URL == "" {
			t.Errorf("pr = %+v", got)
		}
	})

	t.Run("missing arguments are tool errors", func(t *testing.T) {
		tool := NewCreatePullRequestTool(&fakeGitHub{})

		for _, args := range []map[string]any{
			{"branch_name": "feature/proj-1"},
			{"issue_key": "PROJ-1"},
		} {
			result, err := tool.Handle(context.Background(), newRequest(args))
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if !isErrorResult(result) {
				t.Errorf("args %v: expected tool error", args)
			}
		}
	})
}
