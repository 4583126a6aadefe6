package jira

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"In Progress", "in progress"},
		{"  in   progress  ", "in progress"},
		{"DONE", "done"},
		{"To\tDo", "to do"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	// Idempotence: normalizing twice changes nothing.
	for _, tt := range tests {
		once := NormalizeStatus(tt.in)
		if twice := NormalizeStatus(once); twice != once {
			t.Errorf("NormalizeStatus not idempotent for %q: %q != %q", tt.in, once, twice)
		}
	}

	if NormalizeStatus("In  Progress") != NormalizeStatus("in progress") {
		t.Error("normalization should be case- and whitespace-insensitive")
	}
}

func TestMatchTransition(t *testing.T) {
	transitions := []Transition{
		{ID: "11", Name: "Start", To: "In Progress"},
		{ID: "21", Name: "Done", To: "Done"},
	}

	t.Run("case-insensitive target match", func(t *testing.T) {
		tr, ok := MatchTransition(transitions, "done")
		if !ok {
			t.Fatal("expected a match for \"done\"")
		}
		if tr.ID != "21" {
			t.Errorf("matched id = %q, want 21", tr.ID)
		}
	})

	t.Run("no match for unknown status", func(t *testing.T) {
		if _, ok := MatchTransition(transitions, "NONEXISTENT"); ok {
			t.Fatal("expected no match")
		}
	})

	t.Run("first match wins on duplicate targets", func(t *testing.T) {
		dupes := []Transition{
			{ID: "31", Name: "Reopen A", To: "Open"},
			{ID: "41", Name: "Reopen B", To: "open"},
		}
		tr, ok := MatchTransition(dupes, "Open")
		if !ok || tr.ID != "31" {
			t.Errorf("matched id = %q, want first in server order (31)", tr.ID)
		}
	})

	t.Run("empty list never matches", func(t *testing.T) {
		if _, ok := MatchTransition(nil, "Done"); ok {
			t.Fatal("expected no match against empty list")
		}
	})
}

const transitionsPayload = `{
	"transitions": [
		{"id": "11", "name": "Start", "to": {"name": "In Progress"}},
		{"id": "21", "name": "Done", "to": {"name": "Done"}}
	]
}`

func TestResolveTransition(t *testing.T) {
	t.Run("resolves by normalized target", func(t *testing.T) {
		client, fake := newTestClient(t, map[string]stubResponse{
			"GET /rest/api/3/issue/KAN-1/transitions": {status: 200, body: transitionsPayload},
		})

		result, err := client.ResolveTransition(context.Background(), "KAN-1", "done")
		if err != nil {
			t.Fatalf("ResolveTransition: %v", err)
		}
		if !result.Matched {
			t.Fatal("expected a match")
		}
		if result.Transition.ID != "21" || result.Transition.To != "Done" {
			t.Errorf("transition = %+v, want id 21 → Done", result.Transition)
		}
		if len(fake.requests) != 1 {
			t.Errorf("requests = %d, want exactly one fresh fetch", len(fake.requests))
		}
	})

	t.Run("no match returns full list as alternatives", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]stubResponse{
			"GET /rest/api/3/issue/KAN-1/transitions": {status: 200, body: transitionsPayload},
		})

		result, err := client.ResolveTransition(context.Background(), "KAN-1", "NONEXISTENT")
		if err != nil {
			t.Fatalf("ResolveTransition: %v", err)
		}
		if result.Matched {
			t.Fatal("expected no match")
		}
		if len(result.Available) != 2 {
			t.Fatalf("available = %d transitions, want the full unfiltered list", len(result.Available))
		}
		if result.Available[0].ID != "11" || result.Available[1].ID != "21" {
			t.Errorf("available = %+v, want server order preserved", result.Available)
		}
	})

	t.Run("fetch failure aborts resolution", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]stubResponse{
			"GET /rest/api/3/issue/KAN-1/transitions": {status: 500, body: `{"errorMessages":["boom"]}`},
		})

		if _, err := client.ResolveTransition(context.Background(), "KAN-1", "Done"); err == nil {
			t.Fatal("expected error from failed fetch")
		}
	})
}

func TestApplyTransition(t *testing.T) {
	tr := Transition{ID: "21", Name: "Done", To: "Done"}

	t.Run("comment rides in the same request", func(t *testing.T) {
		client, fake := newTestClient(t, map[string]stubResponse{
			"POST /rest/api/3/issue/KAN-1/transitions": {status: 204},
		})

		result, err := client.ApplyTransition(context.Background(), "KAN-1", tr, "work finished")
		if err != nil {
			t.Fatalf("ApplyTransition: %v", err)
		}

		if len(fake.requests) != 1 {
			t.Fatalf("requests = %d, want exactly one write call", len(fake.requests))
		}

		var body struct {
			Transition struct {
				ID string `json:"id"`
			} `json:"transition"`
			Update struct {
				Comment []struct {
					Add struct {
						Body string `json:"body"`
					} `json:"add"`
				} `json:"comment"`
			} `json:"update"`
		}
		if err := json.Unmarshal([]byte(fake.bodies[0]), &body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body.Transition.ID != "21" {
			t.Errorf("payload transition id = %q, want 21", body.Transition.ID)
		}
		if len(body.Update.Comment) != 1 || body.Update.Comment[0].Add.Body != "work finished" {
			t.Errorf("payload comment = %+v, want the comment attached", body.Update.Comment)
		}

		if !result.CommentAdded {
			t.Error("CommentAdded = false, want true")
		}
		if result.MovedTo != "Done" {
			t.Errorf("MovedTo = %q, want Done", result.MovedTo)
		}
		if string(result.Raw) != `{"ok": true, "status_code": 204}` {
			t.Errorf("Raw = %q, want the server response carried through", result.Raw)
		}
	})

	t.Run("no comment omits the update block", func(t *testing.T) {
		client, fake := newTestClient(t, map[string]stubResponse{
			"POST /rest/api/3/issue/KAN-1/transitions": {status: 204},
		})

		result, err := client.ApplyTransition(context.Background(), "KAN-1", tr, "")
		if err != nil {
			t.Fatalf("ApplyTransition: %v", err)
		}
		if result.CommentAdded {
			t.Error("CommentAdded = true, want false")
		}
		if strings.Contains(fake.bodies[0], "update") {
			t.Errorf("payload = %s, want no update block without a comment", fake.bodies[0])
		}
	})

	t.Run("write failure surfaces as error", func(t *testing.T) {
		client, _ := newTestClient(t, map[string]stubResponse{
			"POST /rest/api/3/issue/KAN-1/transitions": {status: 409, body: `{"errorMessages":["workflow changed"]}`},
		})

		if _, err := client.ApplyTransition(context.Background(), "KAN-1", tr, ""); err == nil {
			t.Fatal("expected error from failed write")
		}
	})

	t.Run("missing transition id is rejected before any call", func(t *testing.T) {
		client, fake := newTestClient(t, nil)

		if _, err := client.ApplyTransition(context.Background(), "KAN-1", Transition{To: "Done"}, ""); err == nil {
			t.Fatal("expected error for empty transition id")
		}
		if len(fake.requests) != 0 {
			t.Errorf("requests = %d, want none", len(fake.requests))
		}
	})
}
