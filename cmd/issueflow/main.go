// issueflow: Jira + GitHub workflow MCP server
//
// Bridges an AI assistant to the issue-to-merge development workflow:
// pick a Jira issue, transition it, branch, commit, open a PR, and
// merge, with every write validated against live server state.
//
// Usage:
//
//	issueflow serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	flowserver "github.com/pvaldes/issueflow/internal/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("issueflow v%s\n", flowserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := flowserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Stdio transport: the server exits when the host closes stdin,
	// so no extra signal plumbing is needed here.
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `issueflow v%s - Jira + GitHub workflow MCP server

Usage:
  issueflow serve    Start the MCP server (stdio transport)

Configuration (environment, or a .env file in the working directory):
  JIRA_BASE_URL       Jira Cloud site, e.g. https://acme.atlassian.net
  JIRA_EMAIL          Account email for API token auth
  JIRA_API_TOKEN      Jira API token
  GIT_REPO_URL        GitHub repository, e.g. https://github.com/acme/widgets
  GITHUB_TOKEN        GitHub access token
  GIT_DEFAULT_BRANCH  Base branch for branches and PRs, e.g. main
  GIT_LOCAL_PATH      Local working copy (optional, default ~/{repo})
  ISSUEFLOW_DATA_DIR  Call log location (optional, default ~/.issueflow)

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "issueflow": {
        "command": "issueflow",
        "args": ["serve"]
      }
    }
  }
`, flowserver.Version)
}
