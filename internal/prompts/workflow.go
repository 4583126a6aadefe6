// Package prompts implements MCP prompt handlers for the issue
// workflow.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI how to behave. Unlike tools (which the AI calls),
// prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// WorkflowPrompt handles the dev_workflow_guide MCP prompt. It walks
// the assistant through the issue-to-merge workflow one step at a
// time, with the user confirming every action before a tool is called.
type WorkflowPrompt struct{}

// NewWorkflowPrompt creates a WorkflowPrompt.
func NewWorkflowPrompt() *WorkflowPrompt {
	return &WorkflowPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WorkflowPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dev_workflow_guide",
		mcp.WithPromptDescription(
			"Step-by-step guidance for the Jira-to-GitHub development "+
				"workflow: select an issue, branch, code, commit, open a PR, "+
				"and merge. Every action waits for explicit user confirmation.",
		),
		mcp.WithArgument("step",
			mcp.ArgumentDescription("Current workflow step. Defaults to 'start'."),
		),
		mcp.WithArgument("issue_key",
			mcp.ArgumentDescription("The Jira issue being worked on, e.g. \"KAN-18\"."),
		),
	)
}

// workflowRules is the standing contract for the assistant: no action
// without confirmation, no raw git CLI where a tool exists, and every
// step ends with numbered options and a single question.
const workflowRules = `You are an MCP workflow assistant for Jira + GitHub. Guide the user step-by-step with strict control.

NON-NEGOTIABLE RULES:
1) Never execute actions without explicit user confirmation. Always ask first and wait for the answer.
2) CLI exception: you MAY suggest only this manual command, because no tool covers it:
   - git checkout <branch>
3) You MUST NOT suggest or run CLI for git add / git commit / git push.
   Use ONLY the tool git_commit_and_push(...), and ONLY after the user explicitly says "Yes".
4) Before suggesting any action, check the current state via tools:
   - Before creating a branch: check the Jira status AND whether a branch already exists
   - Before creating a PR: check whether an open PR already exists
   - Before merging: ask the user whether they want to merge (never assume)
5) Do not rush the workflow. Each step must end with:
   - Findings / current state
   - 2-5 numbered options
   - A single question asking the user to choose
   - STOP and wait (no tool calls before the user chooses)
6) If uncertain, stop and ask.`

// stepGuidance holds the per-step menu. {issue} is replaced with the
// issue key. Unknown steps fall back to "start".
var stepGuidance = map[string]string{
	"start": "Start\n" +
		"Choose what you want to do now:\n" +
		"1) Enter/select a Jira issue key (e.g. KAN-18)\n" +
		"2) List my assigned issues (jira_get_my_issues)\n\n" +
		"What do you choose? (1/2)",

	"issue_selected": "Selected issue: {issue}\n\n" +
		"Before suggesting actions, check the current state.\n" +
		"What do you want to check now?\n" +
		"1) Jira issue status\n" +
		"2) Whether a branch already exists for this issue\n" +
		"3) Whether an open PR already exists for this issue\n\n" +
		"Reply 1/2/3.",

	"issue_status_todo": "Issue {issue} is in To Do.\n\n" +
		"What do you want to do now?\n" +
		"1) Move the issue to In Progress\n" +
		"2) Check whether a branch already exists\n" +
		"3) Create a new branch (without changing status)\n" +
		"4) Stop here\n\n" +
		"Reply 1/2/3/4.",

	"issue_status_in_progress": "Issue {issue} is already In Progress.\n" +
		"Do not suggest a status transition.\n\n" +
		"What do you want to do now?\n" +
		"1) Check whether a branch already exists\n" +
		"2) Create a new branch\n" +
		"3) Start/continue coding (no tools, just guidance)\n" +
		"4) Check whether an open PR exists\n" +
		"5) Stop here\n\n" +
		"Reply 1/2/3/4/5.",

	"issue_status_in_review": "Issue {issue} is in In Review.\n\n" +
		"What do you want to do?\n" +
		"1) Check the open PR and its status\n" +
		"2) Check whether the PR is ready to merge\n" +
		"3) Move back to In Progress (only if changes are needed)\n" +
		"4) Stop here\n\n" +
		"Reply 1/2/3/4.",

	"issue_status_done": "Issue {issue} is already Done.\n\n" +
		"What do you want to do?\n" +
		"1) Show details only\n" +
		"2) Choose another issue\n" +
		"3) Stop here\n\n" +
		"Reply 1/2/3.",

	"branch_exists": "A branch already exists for {issue}.\n\n" +
		"What do you want to do?\n" +
		"1) Continue working on the existing branch\n" +
		"2) Check whether an open PR exists\n" +
		"3) Stop here\n\n" +
		"Reply 1/2/3.",

	"branch_not_exists": "No branch found for {issue}.\n\n" +
		"Do you want to create a new branch?\n" +
		"1) Yes, suggest create_branch_for_issue\n" +
		"2) No, stop here\n\n" +
		"Reply 1/2.",

	"branch_created": "Branch created: feature/{issue}\n\n" +
		"CLI exception (allowed because there is no tool for it):\n" +
		"`git checkout feature/{issue}`\n\n" +
		"Question: did you switch to that branch successfully?\n" +
		"1) Yes\n" +
		"2) No\n\n" +
		"Reply 1/2.",

	"coding": "Coding phase\n\n" +
		"When you're ready to push changes, say 'code is ready'.\n" +
		"Reminder: never suggest or run git add/commit/push via CLI.",

	"code_ready": "The code is ready for {issue}.\n\n" +
		"Do NOT suggest or run CLI git add/commit/push.\n" +
		"Commits happen only via git_commit_and_push(...), and only after an explicit 'Yes'.\n\n" +
		"Do you want to run commit + push now using the tool?\n" +
		"1) Yes, suggest git_commit_and_push(\"message\", \"feature/{issue}\")\n" +
		"2) No, stop here\n\n" +
		"Reply 1/2.",

	"after_push": "Push completed for {issue}.\n\n" +
		"Before creating a PR, check whether an open PR already exists.\n" +
		"What do you want to do?\n" +
		"1) Check for an existing open PR\n" +
		"2) Create a new PR (only if you're sure none exists)\n" +
		"3) Stop here\n\n" +
		"Reply 1/2/3.",

	"pr_exists": "An open PR already exists for {issue}.\n\n" +
		"What do you want to do?\n" +
		"1) Show PR details only\n" +
		"2) Update the PR (usually another commit/push)\n" +
		"3) Stop here\n\n" +
		"Reply 1/2/3.",

	"pr_not_exists": "No open PR found for {issue}.\n\n" +
		"Do you want to create a PR?\n" +
		"1) Yes, suggest create_pull_request\n" +
		"2) No, stop here\n\n" +
		"Reply 1/2.",

	"pr_created": "PR created for {issue}.\n\n" +
		"Do NOT suggest merging automatically.\n" +
		"What do you want to do now?\n" +
		"1) Move the issue to In Review\n" +
		"2) Keep the issue status as-is\n" +
		"3) Stop here\n\n" +
		"Reply 1/2/3.",

	"merge_question": "Merge discussion for {issue}.\n\n" +
		"Never merge without explicit confirmation.\n" +
		"Do you want to merge now?\n" +
		"1) Yes, suggest merge_pull_request\n" +
		"2) No, keep the PR open\n\n" +
		"Reply 1/2.",
}

// guidanceFor renders the menu for one step, falling back to the
// start step when the name is unknown.
func guidanceFor(step, issueKey string) string {
	if issueKey == "" {
		issueKey = "<ISSUE_KEY>"
	}
	text, ok := stepGuidance[step]
	if !ok {
		text = stepGuidance["start"]
	}
	return strings.ReplaceAll(text, "{issue}", issueKey)
}

// Handle processes the dev_workflow_guide prompt request.
func (p *WorkflowPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	step := "start"
	issueKey := ""
	if args := req.Params.Arguments; args != nil {
		if s, ok := args["step"]; ok && s != "" {
			step = s
		}
		if k, ok := args["issue_key"]; ok {
			issueKey = k
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Workflow guidance: %s", step),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(workflowRules),
			},
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(guidanceFor(step, issueKey)),
			},
		},
	}, nil
}
