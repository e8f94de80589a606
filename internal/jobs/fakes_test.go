package jobs

import (
	"context"
	"sync"

	gogithub "github.com/google/go-github/v73/github"

	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/github"
)

// fakeGitHubClient is a func-field test double for github.Client.
type fakeGitHubClient struct {
	mu sync.Mutex

	pullRequest    *gogithub.PullRequest
	pullRequestErr error

	diff    string
	diffErr error

	fileContent string
	fileErr     error

	createReviewErr error

	getPullRequestCalls int
	getDiffCalls        int
	getFileCalls        int

	submittedCommitID string
	submittedFindings []core.Finding
	createReviewCalls int
	createCommentBody []string
}

var _ github.Client = (*fakeGitHubClient)(nil)

func (f *fakeGitHubClient) GetPullRequest(_ context.Context, _, _ string, _ int) (*gogithub.PullRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getPullRequestCalls++
	return f.pullRequest, f.pullRequestErr
}

func (f *fakeGitHubClient) GetPullRequestDiff(_ context.Context, _, _ string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getDiffCalls++
	return f.diff, f.diffErr
}

func (f *fakeGitHubClient) GetFileContent(_ context.Context, _, _, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getFileCalls++
	if f.fileErr != nil {
		return "", f.fileErr
	}
	return f.fileContent, nil
}

func (f *fakeGitHubClient) CreateReview(_ context.Context, _, _ string, _ int, commitID string, findings []core.Finding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createReviewCalls++
	if f.createReviewErr != nil {
		return f.createReviewErr
	}
	f.submittedCommitID = commitID
	f.submittedFindings = findings
	return nil
}

func (f *fakeGitHubClient) CreateComment(_ context.Context, _, _ string, _ int, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCommentBody = append(f.createCommentBody, body)
	return nil
}

// fakeGenerator is a func-field test double for llm.Generator. It records
// every prompt it was asked to review.
type fakeGenerator struct {
	mu       sync.Mutex
	reviewFn func(prompt string) (string, error)
	prompts  []string
}

func (f *fakeGenerator) Review(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.reviewFn == nil {
		return "No issues found.", nil
	}
	return f.reviewFn(prompt)
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func (f *fakeGenerator) promptsSeen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
