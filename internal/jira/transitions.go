package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Transition is one legal workflow move for an issue: an opaque id
// (required by the write call), a human label, and the name of the
// status it leads to. The set of transitions is owned by the Jira
// workflow engine and can change between calls, so transitions are
// fetched fresh on every resolution and never cached.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   string `json:"to_status"`
}

// TransitionResult is the outcome of resolving a target status against
// an issue's current transitions. Exactly one shape is populated:
// Matched=true with the chosen Transition, or Matched=false with the
// full, unfiltered server-order list so the caller can present options.
type TransitionResult struct {
	Matched    bool
	Transition Transition
	Available  []Transition
}

// ApplyResult describes a successfully executed transition. Raw holds
// the server's own response to the write (the ok marker on a 204) for
// callers that asked for the unprocessed payload.
type ApplyResult struct {
	IssueKey     string          `json:"issue_key"`
	MovedTo      string          `json:"moved_to"`
	Used         Transition      `json:"transition_used"`
	CommentAdded bool            `json:"comment_added"`
	Raw          json.RawMessage `json:"-"`
}

// NormalizeStatus canonicalizes a workflow status name for matching:
// trim, lowercase, and collapse internal whitespace runs to single
// spaces. Status names are free text in Jira, so the caller's phrasing
// and the server's canonical form often differ only in case or spacing.
func NormalizeStatus(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// MatchTransition scans transitions in server order and returns the
// first whose target status matches target after normalization. If a
// workflow exposes two transitions to identically-named statuses, the
// earlier one wins; the tie-break is deliberate and deterministic.
func MatchTransition(transitions []Transition, target string) (Transition, bool) {
	want := NormalizeStatus(target)
	for _, tr := range transitions {
		if NormalizeStatus(tr.To) == want {
			return tr, true
		}
	}
	return Transition{}, false
}

// Transitions fetches the current legal transitions for an issue.
// This is the issue's workflow out-edge list at call time; it must be
// re-read before every transition attempt.
func (c *Client) Transitions(ctx context.Context, issueKey string) ([]Transition, error) {
	raw, err := c.Get(ctx, fmt.Sprintf("/issue/%s/transitions", issueKey), nil)
	if err != nil {
		return nil, fmt.Errorf("fetching transitions for %s: %w", issueKey, err)
	}

	var payload struct {
		Transitions []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			To   struct {
				Name string `json:"name"`
			} `json:"to"`
		} `json:"transitions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding transitions for %s: %w", issueKey, err)
	}

	transitions := make([]Transition, 0, len(payload.Transitions))
	for _, tr := range payload.Transitions {
		transitions = append(transitions, Transition{
			ID:   tr.ID,
			Name: tr.Name,
			To:   tr.To.Name,
		})
	}
	return transitions, nil
}

// ResolveTransition fetches the issue's current transitions and matches
// the requested target status. A no-match outcome is data, not an
// error: the result carries every available transition so the caller
// can decide what to do.
func (c *Client) ResolveTransition(ctx context.Context, issueKey, targetStatus string) (*TransitionResult, error) {
	transitions, err := c.Transitions(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	if chosen, ok := MatchTransition(transitions, targetStatus); ok {
		return &TransitionResult{Matched: true, Transition: chosen}, nil
	}
	return &TransitionResult{Matched: false, Available: transitions}, nil
}

// ApplyTransition executes one workflow move. When comment is
// non-empty it rides along in the same request: Jira accepts comment
// updates inside the transition payload, so this is a single round
// trip, never two writes.
func (c *Client) ApplyTransition(ctx context.Context, issueKey string, tr Transition, comment string) (*ApplyResult, error) {
	if tr.ID == "" {
		return nil, fmt.Errorf("transition for %s has no id", issueKey)
	}

	body := map[string]any{
		"transition": map[string]string{"id": tr.ID},
	}
	commentAdded := false
	if comment != "" {
		body["update"] = map[string]any{
			"comment": []map[string]any{
				{"add": map[string]string{"body": comment}},
			},
		}
		commentAdded = true
	}

	payload, err := c.post(ctx, "jira-transition", fmt.Sprintf("/issue/%s/transitions", issueKey), body)
	if err != nil {
		return nil, fmt.Errorf("executing transition %q on %s: %w", tr.Name, issueKey, err)
	}

	return &ApplyResult{
		IssueKey:     issueKey,
		MovedTo:      tr.To,
		Used:         tr,
		CommentAdded: commentAdded,
		Raw:          payload,
	}, nil
}
