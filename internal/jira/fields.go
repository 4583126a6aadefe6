package jira

// Default field sets requested from Jira. Lists stay compact; single
// issue views pull the full detail set.
var (
	// ListFields is the default projection for search results.
	ListFields = []string{
		"summary",
		"status",
		"priority",
		"updated",
		"assignee",
		"duedate",
	}

	// IssueFields is the default projection for a single issue.
	IssueFields = []string{
		"summary",
		"description",
		"issuetype",
		"status",
		"priority",
		"assignee",
		"reporter",
		"duedate",
		"created",
		"updated",
		"subtasks",
	}
)

// mergeFields appends extras to a copy of base, skipping duplicates.
// Order is preserved: defaults first, then caller-requested fields.
func mergeFields(base, extras []string) []string {
	out := make([]string, len(base), len(base)+len(extras))
	copy(out, base)
	seen := make(map[string]struct{}, len(base))
	for _, f := range base {
		seen[f] = struct{}{}
	}
	for _, f := range extras {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
