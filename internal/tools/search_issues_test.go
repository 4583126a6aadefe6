package tools

import (
	"context"
	"testing"
)

const searchPayload = `{
	"issues": [
		{"key": "PROJ-1", "fields": {"summary": "Fix login", "status": {"name": "To Do"}}},
		{"key": "PROJ-2", "fields": {"summary": "Add SSO", "status": {"name": "In Progress"}}}
	],
	"isLast": true
}`

func TestSearchIssuesTool(t *testing.T) {
	t.Run("passes query and pagination through", func(t *testing.T) {
		jiraFake := &fakeJira{searchPayload: []byte(searchPayload)}
		tool := NewSearchIssuesTool(jiraFake)

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"jql":             `project = "PROJ"`,
			"max_results":     float64(5),
			"next_page_token": "tok-2",
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected tool error: %s", getResultText(result))
		}

		if jiraFake.searchReq.JQL != `project = "PROJ"` {
			t.Errorf("JQL = %q", jiraFake.searchReq.JQL)
		}
		if jiraFake.searchReq.MaxResults != 5 || jiraFake.searchReq.NextPageToken != "tok-2" {
			t.Errorf("request = %+v", jiraFake.searchReq)
		}

		var got struct {
			Count  int `json:"count"`
			Issues []struct {
				Key string `json:"key"`
			} `json:"issues"`
		}
		decodeResult(t, result, &got)
		if got.Count != 2 || got.Issues[0].Key != "PROJ-1" {
			t.Errorf("list = %+v", got)
		}
	})

	t.Run("raw returns the payload untouched", func(t *testing.T) {
		tool := NewSearchIssuesTool(&fakeJira{searchPayload: []byte(searchPayload)})

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{
			"jql": `project = "PROJ"`,
			"raw": true,
		}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if getResultText(result) != searchPayload {
			t.Errorf("raw result = %q", getResultText(result))
		}
	})

	t.Run("missing jql is a tool error", func(t *testing.T) {
		tool := NewSearchIssuesTool(&fakeJira{})

		result, err := tool.Handle(context.Background(), newRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if !isErrorResult(result) {
			t.Fatal("expected tool error for missing jql")
		}
	})
}
