// Package git runs git commands against a local working copy. It
// covers the one workflow the tools need: stage everything, commit,
// and push to a branch on origin.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	commandTimeout = 30 * time.Second
	// Pushes go over the network and get more slack.
	pushTimeout = 60 * time.Second
)

// runFunc executes one git command in dir and returns its trimmed
// stdout. Swapped out in tests.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// Runner executes git operations in one repository working copy.
type Runner struct {
	dir string
	run runFunc
}

// NewRunner builds a Runner for the repository at dir. It fails fast
// when dir is not a git working copy, so every later command error
// means a real git failure rather than a wrong path.
func NewRunner(dir string) (*Runner, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving repository path %s: %w", dir, err)
	}
	info, err := os.Stat(filepath.Join(abs, ".git"))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s is not a git repository", abs)
	}
	return &Runner{dir: abs, run: runGit}, nil
}

func newRunner(dir string, run runFunc) *Runner {
	return &Runner{dir: dir, run: run}
}

// runGit executes git with stdin closed so a prompt for credentials
// fails instead of hanging the server.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdin = nil

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = strings.TrimSpace(stdout.String())
		}
		if detail != "" {
			return "", fmt.Errorf("git %s: %s", args[0], detail)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runStep runs one git command under its own deadline, so a slow step
// never eats into the budget of the steps after it.
func (r *Runner) runStep(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.run(stepCtx, r.dir, args...)
}

// CurrentBranch returns the checked-out branch name.
func (r *Runner) CurrentBranch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	branch, err := r.run(ctx, r.dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("reading current branch: %w", err)
	}
	return branch, nil
}

// PushResult describes a completed commit-and-push.
type PushResult struct {
	Branch  string `json:"branch"`
	Commit  string `json:"commit"`
	Message string `json:"message"`
	Dir     string `json:"local_path"`
}

// CommitAndPush stages all changes, commits them with message, and
// pushes to branch on origin. An empty branch pushes to the currently
// checked-out branch. The steps run in order and the first failure
// aborts: a failed stage never commits, a failed commit never pushes.
func (r *Runner) CommitAndPush(ctx context.Context, message, branch string) (*PushResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("commit message must not be empty")
	}

	if branch == "" {
		current, err := r.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}
		branch = current
	}

	if _, err := r.runStep(ctx, commandTimeout, "add", "."); err != nil {
		return nil, fmt.Errorf("staging changes: %w", err)
	}
	if _, err := r.runStep(ctx, commandTimeout, "commit", "-m", message); err != nil {
		return nil, fmt.Errorf("committing: %w", err)
	}

	hash, err := r.runStep(ctx, commandTimeout, "rev-parse", "--short", "HEAD")
	if err != nil {
		hash = "unknown"
	}

	if _, err := r.runStep(ctx, pushTimeout, "push", "origin", branch); err != nil {
		return nil, fmt.Errorf("pushing %s to origin: %w", branch, err)
	}

	return &PushResult{
		Branch:  branch,
		Commit:  hash,
		Message: message,
		Dir:     r.dir,
	}, nil
}
