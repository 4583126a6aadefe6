// Package config loads Jira and GitHub settings from the environment.
//
// Tokens are pre-supplied by the operator (typically via the MCP host's
// env block or a .env file next to the working directory); this package
// only validates and normalizes them; no auth flows live here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// JiraConfig holds the credentials and endpoint for a Jira Cloud site.
type JiraConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Email    string `mapstructure:"email"`
	APIToken string `mapstructure:"api_token"`
}

// GitHubConfig holds the repository and token for GitHub operations.
type GitHubConfig struct {
	RepoURL       string `mapstructure:"repo_url"`
	Token         string `mapstructure:"token"`
	DefaultBranch string `mapstructure:"default_branch"`
}

// newViper returns a viper instance bound to the process environment,
// with an optional .env file layered underneath (missing file is fine).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()
	return v
}

// LoadJira reads Jira configuration from JIRA_BASE_URL, JIRA_EMAIL,
// and JIRA_API_TOKEN. All three are required; the base URL is
// normalized by stripping any trailing slash.
func LoadJira() (*JiraConfig, error) {
	v := newViper()

	cfg := &JiraConfig{
		BaseURL:  v.GetString("JIRA_BASE_URL"),
		Email:    v.GetString("JIRA_EMAIL"),
		APIToken: v.GetString("JIRA_API_TOKEN"),
	}

	var missing []string
	if cfg.BaseURL == "" {
		missing = append(missing, "JIRA_BASE_URL")
	}
	if cfg.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if cfg.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing Jira configuration: set %s", strings.Join(missing, ", "))
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// LoadGitHub reads GitHub configuration from GIT_REPO_URL, GITHUB_TOKEN,
// and GIT_DEFAULT_BRANCH. All three are required, and the repo URL must
// resolve to an owner/repo pair.
func LoadGitHub() (*GitHubConfig, error) {
	v := newViper()

	cfg := &GitHubConfig{
		RepoURL:       v.GetString("GIT_REPO_URL"),
		Token:         v.GetString("GITHUB_TOKEN"),
		DefaultBranch: v.GetString("GIT_DEFAULT_BRANCH"),
	}

	var missing []string
	if cfg.RepoURL == "" {
		missing = append(missing, "GIT_REPO_URL")
	}
	if cfg.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if cfg.DefaultBranch == "" {
		missing = append(missing, "GIT_DEFAULT_BRANCH")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing GitHub configuration: set %s", strings.Join(missing, ", "))
	}

	cfg.RepoURL = strings.TrimRight(cfg.RepoURL, "/")
	if _, _, err := cfg.RepoInfo(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LocalRepoPath returns the local working copy for git operations:
// GIT_LOCAL_PATH when set, otherwise ~/{repo} derived from the
// configured repo URL.
func (c *GitHubConfig) LocalRepoPath() (string, error) {
	v := newViper()
	if p := v.GetString("GIT_LOCAL_PATH"); p != "" {
		return p, nil
	}

	_, repo, err := c.RepoInfo()
	if err != nil {
		return "", err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, repo), nil
}

// DataDir returns the directory for local state such as the call log:
// ISSUEFLOW_DATA_DIR when set, otherwise ~/.issueflow.
func DataDir() (string, error) {
	v := newViper()
	if d := v.GetString("ISSUEFLOW_DATA_DIR"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".issueflow"), nil
}

// RepoInfo extracts the owner and repository name from the configured
// repo URL. Accepts https URLs with or without a .git suffix.
func (c *GitHubConfig) RepoInfo() (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimRight(c.RepoURL, "/"), ".git")
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid GIT_REPO_URL %q: expected .../owner/repo", c.RepoURL)
	}
	owner = parts[len(parts)-2]
	repo = parts[len(parts)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid GIT_REPO_URL %q: empty owner or repo", c.RepoURL)
	}
	return owner, repo, nil
}
