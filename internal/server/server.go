// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it loads configuration, builds the
// Jira and GitHub clients and the local git runner, and injects them
// into the tools, prompts, and resources. No business logic lives
// here, only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/pvaldes/issueflow/internal/calllog"
	"github.com/pvaldes/issueflow/internal/config"
	"github.com/pvaldes/issueflow/internal/git"
	"github.com/pvaldes/issueflow/internal/github"
	"github.com/pvaldes/issueflow/internal/jira"
	"github.com/pvaldes/issueflow/internal/prompts"
	"github.com/pvaldes/issueflow/internal/resources"
	"github.com/pvaldes/issueflow/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the call log's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if the log init failed.
func New() (*server.MCPServer, func(), error) {
	jiraCfg, err := config.LoadJira()
	if err != nil {
		return nil, noop, err
	}
	ghCfg, err := config.LoadGitHub()
	if err != nil {
		return nil, noop, err
	}

	// The call log is an independent subsystem: if it fails to open,
	// API calls still work, they just go unrecorded.
	cleanup := noop
	var recorder jira.CallRecorder
	if dataDir, err := config.DataDir(); err != nil {
		log.Printf("WARNING: call log disabled: %v", err)
	} else if store, err := calllog.New(dataDir); err != nil {
		log.Printf("WARNING: call log disabled: %v", err)
	} else {
		recorder = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Printf("WARNING: call log close: %v", err)
			}
		}
	}

	jiraClient := jira.NewClient(jiraCfg, nil, recorder)

	ghClient, err := github.NewClient(ghCfg)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("creating GitHub client: %w", err)
	}

	s := server.NewMCPServer(
		"issueflow",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register Jira tools ---

	getIssue := tools.NewGetIssueTool(jiraClient)
	s.AddTool(getIssue.Definition(), getIssue.Handle)

	searchIssues := tools.NewSearchIssuesTool(jiraClient)
	s.AddTool(searchIssues.Definition(), searchIssues.Handle)

	myIssues := tools.NewMyIssuesTool(jiraClient)
	s.AddTool(myIssues.Definition(), myIssues.Handle)

	transitionIssue := tools.NewTransitionIssueTool(jiraClient)
	s.AddTool(transitionIssue.Definition(), transitionIssue.Handle)

	// --- Register GitHub tools ---

	createBranch := tools.NewCreateBranchTool(ghClient)
	s.AddTool(createBranch.Definition(), createBranch.Handle)

	createPR := tools.NewCreatePullRequestTool(ghClient)
	s.AddTool(createPR.Definition(), createPR.Handle)

	mergePR := tools.NewMergePullRequestTool(ghClient)
	s.AddTool(mergePR.Definition(), mergePR.Handle)

	// --- Register local git tool ---
	//
	// The working copy is optional: the server is useful for Jira and
	// GitHub operations even when no local checkout exists. The commit
	// tool is registered only when the configured path is a git repo.

	if repoPath, err := ghCfg.LocalRepoPath(); err != nil {
		log.Printf("WARNING: git_commit_and_push disabled: %v", err)
	} else if runner, err := git.NewRunner(repoPath); err != nil {
		log.Printf("WARNING: git_commit_and_push disabled: %v", err)
	} else {
		commitPush := tools.NewCommitPushTool(runner)
		s.AddTool(commitPush.Definition(), commitPush.Handle)
	}

	// --- Register prompts ---

	workflowPrompt := prompts.NewWorkflowPrompt()
	s.AddPrompt(workflowPrompt.Definition(), workflowPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.WorkflowGuideResource(), resourceHandler.HandleWorkflowGuide)
	s.AddResource(resourceHandler.APIReferenceResource(), resourceHandler.HandleAPIReference)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the call
// log is disabled or hasn't been initialized.
func noop() {}

func serverInstructions() string {
	return `You have access to issueflow, an MCP server bridging Jira and GitHub for the development workflow.

## WHAT IT COVERS

- Jira: look up issues (jira_get_issue, jira_search_issues, jira_get_my_issues) and move them through the workflow (jira_transition_issue).
- GitHub: create feature branches (create_branch_for_issue), open pull requests (create_pull_request), and merge them (merge_pull_request).
- Local git: stage, commit, and push in one step (git_commit_and_push).

## GROUND RULES

- Confirm with the user before any write: transitions, branches, commits, PRs, and above all merges.
- Never run git add/commit/push from the CLI; use git_commit_and_push. The only allowed manual git command is 'git checkout <branch>'.
- When a transition target is not available, the tool answers with the legal options; present them to the user instead of retrying blindly.
- A refused merge names the failed condition (already merged, not open, CI failing or pending, changes requested). Fix the cause; do not retry the merge as-is.
- The dev_workflow_guide prompt walks through the full issue-to-merge flow step by step; the guide://workflow resource documents it.`
}
