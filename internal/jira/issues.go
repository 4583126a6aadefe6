package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Issue is the compact, LLM-friendly view of a Jira issue. Raw API
// responses are deeply nested; tools return this instead unless the
// caller explicitly asks for the raw payload.
type Issue struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	IssueType   string    `json:"issuetype,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	Reporter    string    `json:"reporter,omitempty"`
	DueDate     string    `json:"duedate,omitempty"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Description string    `json:"description_text,omitempty"`
	Subtasks    []Subtask `json:"subtasks,omitempty"`
}

// Subtask is the minimal view of a subtask under an issue.
type Subtask struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Status    string `json:"status,omitempty"`
	IssueType string `json:"issuetype,omitempty"`
}

// IssueList is the compact view of a search/list response.
type IssueList struct {
	Count         int     `json:"count"`
	Issues        []Issue `json:"issues"`
	IsLast        *bool   `json:"is_last,omitempty"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

// SearchRequest drives a JQL search.
type SearchRequest struct {
	JQL           string
	MaxResults    int
	NextPageToken string
	Fields        []string
}

// MyIssuesRequest drives the current-user issue listing.
type MyIssuesRequest struct {
	Status     string
	IssueType  string
	MaxResults int
	Fields     []string
}

// GetIssue fetches a single issue with the default issue projection
// plus any caller-requested fields, returning the raw payload.
func (c *Client) GetIssue(ctx context.Context, issueKey string, extraFields []string) (json.RawMessage, error) {
	fields := IssueFields
	if len(extraFields) > 0 {
		fields = mergeFields(IssueFields, extraFields)
	}
	params := url.Values{"fields": []string{strings.Join(fields, ",")}}
	return c.Get(ctx, "/issue/"+issueKey, params)
}

// SearchIssues runs a JQL query via POST /search/jql and returns the
// raw payload. MaxResults defaults to 10 when unset.
func (c *Client) SearchIssues(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	jql := strings.TrimSpace(req.JQL)
	if jql == "" {
		return nil, fmt.Errorf("jql query is required")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     mergeFields(ListFields, req.Fields),
	}
	if req.NextPageToken != "" {
		body["nextPageToken"] = req.NextPageToken
	}

	return c.post(ctx, "jira-search", "/search/jql", body)
}

// MyIssues lists issues assigned to the authenticated user, highest
// priority and most recently updated first.
func (c *Client) MyIssues(ctx context.Context, req MyIssuesRequest) (json.RawMessage, error) {
	clauses := []string{"assignee = currentUser()"}
	if req.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = %q", req.Status))
	}
	if req.IssueType != "" {
		clauses = append(clauses, fmt.Sprintf("issuetype = %q", req.IssueType))
	}
	jql := strings.Join(clauses, " AND ") + " ORDER BY priority DESC, updated DESC"

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     mergeFields(ListFields, req.Fields),
	}

	return c.post(ctx, "jira-my-issues", "/search/jql", body)
}

// ─── Formatters ──────────────────────────────────────────────────────────────

// rawIssue mirrors the slice of the Jira issue payload we read.
type rawIssue struct {
	Key    string `json:"key"`
	Fields struct {
		Summary     string     `json:"summary"`
		Status      *namedRef  `json:"status"`
		Priority    *namedRef  `json:"priority"`
		IssueType   *namedRef  `json:"issuetype"`
		Assignee    *userRef   `json:"assignee"`
		Reporter    *userRef   `json:"reporter"`
		DueDate     string     `json:"duedate"`
		Created     string     `json:"created"`
		Updated     string     `json:"updated"`
		Description *ADFNode   `json:"description"`
		Subtasks    []rawIssue `json:"subtasks"`
	} `json:"fields"`
}

type namedRef struct {
	Name string `json:"name"`
}

type userRef struct {
	DisplayName string `json:"displayName"`
}

func (n *namedRef) name() string {
	if n == nil {
		return ""
	}
	return n.Name
}

func (u *userRef) displayName() string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

// FormatIssue converts a raw issue payload into the compact Issue view,
// flattening the ADF description to plain text.
func FormatIssue(raw json.RawMessage) (*Issue, error) {
	var ri rawIssue
	if err := json.Unmarshal(raw, &ri); err != nil {
		return nil, fmt.Errorf("decoding issue: %w", err)
	}
	issue := formatRawIssue(ri)
	return &issue, nil
}

func formatRawIssue(ri rawIssue) Issue {
	issue := Issue{
		Key:         ri.Key,
		Summary:     ri.Fields.Summary,
		IssueType:   ri.Fields.IssueType.name(),
		Status:      ri.Fields.Status.name(),
		Priority:    ri.Fields.Priority.name(),
		Assignee:    ri.Fields.Assignee.displayName(),
		Reporter:    ri.Fields.Reporter.displayName(),
		DueDate:     ri.Fields.DueDate,
		Created:     ri.Fields.Created,
		Updated:     ri.Fields.Updated,
		Description: ADFToText(ri.Fields.Description),
	}

	for _, st := range ri.Fields.Subtasks {
		issue.Subtasks = append(issue.Subtasks, Subtask{
			Key:       st.Key,
			Summary:   st.Fields.Summary,
			Status:    st.Fields.Status.name(),
			IssueType: st.Fields.IssueType.name(),
		})
	}

	return issue
}

// FormatIssueList converts a raw search payload into the compact list view.
func FormatIssueList(raw json.RawMessage) (*IssueList, error) {
	var payload struct {
		Issues        []rawIssue `json:"issues"`
		IsLast        *bool      `json:"isLast"`
		NextPageToken string     `json:"nextPageToken"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding search payload: %w", err)
	}

	list := &IssueList{
		Count:         len(payload.Issues),
		Issues:        make([]Issue, 0, len(payload.Issues)),
		IsLast:        payload.IsLast,
		NextPageToken: payload.NextPageToken,
	}
	for _, ri := range payload.Issues {
		list.Issues = append(list.Issues, formatRawIssue(ri))
	}
	return list, nil
}
