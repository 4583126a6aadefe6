package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/pvaldes/issueflow/internal/jira"
)

func TestTransitionIssueTool(t *testing.T) {
	t.Run("applies the resolved transition with comment", func(t *testing.T) {
		jiraFake := &fakeJira{
			resolved: &jira.TransitionResult{
				Matched:    true,
				Transition: jira.Transition{ID: "21", Name: "Done", To: "Done"},
			},
			applied: &jira.ApplyResult{
				IssueKey:     "PROJ-1",
				MovedTo:      "Done",
				Used:         jira.Transition{ID: "21", Name: "Done", To: "Done"},
				CommentAdded: true,
			},
		}
		tool := NewTransitionIssueTool(jiraFake)

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"issue_key": "PROJ-1",
			"to_status": "done",
			"comment":   "Closing after review",
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected tool error: %s", getResultText(result))
		}

		if jiraFake.applyTr.ID != "21" || jiraFake.applyNote != "Closing after review" {
			t.Errorf("applied transition %+v with comment %q", jiraFake.applyTr, jiraFake.applyNote)
		}

		var got struct {
			OK           bool   `json:"ok"`
			MovedTo      string `json:"moved_to"`
			CommentAdded bool   `json:"comment_added"`
		}
		decodeResult(t, result, &got)
		if !got.OK || got.MovedTo != "Done" || !got.CommentAdded {
			t.Errorf("reply = %+v", got)
		}
	})

	t.Run("raw flag returns the server payload untouched", func(t *testing.T) {
		rawBody := `{"ok": true, "status_code": 204}`
		jiraFake := &fakeJira{
			resolved: &jira.TransitionResult{
				Matched:    true,
				Transition: jira.Transition{ID: "21", Name: "Done", To: "Done"},
			},
			applied: &jira.ApplyResult{
				IssueKey: "PROJ-1",
				MovedTo:  "Done",
				Raw:      json.RawMessage(rawBody),
			},
		}
		tool := NewTransitionIssueTool(jiraFake)

		if _, ok := tool.Definition().InputSchema.Properties["raw"]; !ok {
			t.Fatal("definition must expose the raw parameter")
		}

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"issue_key": "PROJ-1",
			"to_status": "done",
			"raw":       true,
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected tool error: %s", getResultText(result))
		}
		if got := getResultText(result); got != rawBody {
			t.Errorf("raw payload = %q, want untouched server response", got)
		}
	})

	t.Run("no match returns available options as data", func(t *testing.T) {
		available := []jira.Transition{
			{ID: "11", Name: "Start Progress", To: "In Progress"},
			{ID: "31", Name: "Close", To: "Closed"},
		}
		jiraFake := &fakeJira{resolved: &jira.TransitionResult{Matched: false, Available: available}}
		tool := NewTransitionIssueTool(jiraFake)

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"issue_key": "PROJ-1",
			"to_status": "Nonexistent",
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatal("a no-match outcome must not be a tool error")
		}
		if jiraFake.applyCalls != 0 {
			t.Error("no transition may be applied without a match")
		}

		var got transitionRefusal
		decodeResult(t, result, &got)
		if got.OK || got.Error != "no_matching_transition" {
			t.Errorf("reply = %+v", got)
		}
		if len(got.Available) != 2 || got.Available[0].ID != "11" || got.Available[1].ID != "31" {
			t.Errorf("available = %+v, want server order preserved", got.Available)
		}
	})

	t.Run("resolution failure is a tool error", func(t *testing.T) {
		tool := NewTransitionIssueTool(&fakeJira{resolveErr: errors.New("jira: GET: status 502")})

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"issue_key": "PROJ-1",
			"to_status": "Done",
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if !isErrorResult(result) {
			t.Fatal("expected tool error")
		}
	})

	t.Run("missing arguments are tool errors", func(t *testing.T) {
		tool := NewTransitionIssueTool(&fakeJira{})

		for _, args := range []map[string]any{
			{"to_status": "Done"},
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
