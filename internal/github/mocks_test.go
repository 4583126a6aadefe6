package github

import (
	"context"
	"testing"

	"github.com/google/go-github/v80/github"
)

// Hand-written service mocks. Each records how often it was called so
// tests can assert which collaborators the gate actually touched.

type fakePulls struct {
	pr        *github.PullRequest
	getErr    error
	getCalls  int
	reviews   []*github.PullRequestReview
	listErr   error
	listCalls int

	mergeResult *github.PullRequestMergeResult
	mergeErr    error
	mergeCalls  int
	mergedMsg   string
	mergedOpts  *github.PullRequestOptions

	created    *github.PullRequest
	createErr  error
	createdReq *github.NewPullRequest
}

func (f *fakePulls) Get(_ context.Context, _, _ string, _ int) (*github.PullRequest, *github.Response, error) {
	f.getCalls++
	return f.pr, nil, f.getErr
}

func (f *fakePulls) Create(_ context.Context, _, _ string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	f.createdReq = pull
	return f.created, nil, f.createErr
}

func (f *fakePulls) ListReviews(_ context.Context, _, _ string, _ int, _ *github.ListOptions) ([]*github.PullRequestReview, *github.Response, error) {
	f.listCalls++
	return f.reviews, nil, f.listErr
}

func (f *fakePulls) Merge(_ context.Context, _, _ string, _ int, commitMessage string, options *github.PullRequestOptions) (*github.PullRequestMergeResult, *github.Response, error) {
	f.mergeCalls++
	f.mergedMsg = commitMessage
	f.mergedOpts = options
	return f.mergeResult, nil, f.mergeErr
}

type fakeRepos struct {
	status      *github.CombinedStatus
	statusErr   error
	statusCalls int
}

func (f *fakeRepos) GetCombinedStatus(_ context.Context, _, _, _ string, _ *github.ListOptions) (*github.CombinedStatus, *github.Response, error) {
	f.statusCalls++
	return f.status, nil, f.statusErr
}

type fakeGit struct {
	ref        *github.Reference
	getRefErr  error
	created     *github.Reference
	createErr   error
	createCalls int
	createdRef  github.CreateRef
}

func (f *fakeGit) GetRef(_ context.Context, _, _, _ string) (*github.Reference, *github.Response, error) {
	return f.ref, nil, f.getRefErr
}

func (f *fakeGit) CreateRef(_ context.Context, _, _ string, ref github.CreateRef) (*github.Reference, *github.Response, error) {
	f.createCalls++
	f.createdRef = ref
	return f.created, nil, f.createErr
}

// openPR builds a PR fixture in the given state.
func openPR(state string, merged bool, headSHA, title string) *github.PullRequest {
	return &github.PullRequest{
		State:  github.Ptr(state),
		Merged: github.Ptr(merged),
		Title:  github.Ptr(title),
		Head:   &github.PullRequestBranch{SHA: github.Ptr(headSHA)},
	}
}

func review(login, state string) *github.PullRequestReview {
	return &github.PullRequestReview{
		User:  &github.User{Login: github.Ptr(login)},
		State: github.Ptr(state),
	}
}

func combinedStatus(state string, contexts ...*github.RepoStatus) *github.CombinedStatus {
	return &github.CombinedStatus{
		State:    github.Ptr(state),
		Statuses: contexts,
	}
}

func repoStatus(ctxName, state string) *github.RepoStatus {
	return &github.RepoStatus{
		Context: github.Ptr(ctxName),
		State:   github.Ptr(state),
	}
}

// newGateClient wires a Client over the fakes.
func newGateClient(t *testing.T, pulls *fakePulls, repos *fakeRepos, git *fakeGit) *Client {
	t.Helper()
	if repos == nil {
		repos = &fakeRepos{}
	}
	if git == nil {
		git = &fakeGit{}
	}
	return NewClientWithServices(pulls, repos, git, "acme", "widgets", "main")
}
