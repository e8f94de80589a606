// Package github provides the collaborator client for the GitHub API:
// pull request and diff retrieval, file content at a commit, and batched
// review submission.
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/ullrai/pr-review-bot/internal/core"
)

// ErrFileNotFound is returned by GetFileContent when the requested path does
// not exist at the given ref.
var ErrFileNotFound = errors.New("file not found")

// Client defines the GitHub operations the review pipeline depends on.
type Client interface {
	// GetPullRequest retrieves a single pull request by number.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	// GetPullRequestDiff retrieves the unified diff of a pull request.
	GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error)
	// GetFileContent retrieves a file's decoded content at a specific ref.
	// Returns ErrFileNotFound when the path is absent at that ref.
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error)
	// CreateReview submits one batched review anchored at commitID, with one
	// inline comment per finding.
	CreateReview(ctx context.Context, owner, repo string, number int, commitID string, findings []core.Finding) error
	// CreateComment posts a plain comment on a pull request.
	CreateComment(ctx context.Context, owner, repo string, number int, body string) error
}

type gitHubClient struct {
	client *github.Client
	retry  RetryPolicy
	logger *slog.Logger
}

// NewClient wraps a go-github client with call logging and the given retry
// policy.
func NewClient(client *github.Client, retry RetryPolicy, logger *slog.Logger) Client {
	return &gitHubClient{client: client, retry: retry, logger: logger}
}

// NewPATClient creates a Client authenticated with a personal access token.
func NewPATClient(ctx context.Context, token string, retry RetryPolicy, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return NewClient(github.NewClient(tc), retry, logger)
}

func (g *gitHubClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	var pr *github.PullRequest
	err := g.retry.Do(ctx, func() error {
		var err error
		pr, _, err = g.client.PullRequests.Get(ctx, owner, repo, number)
		return err
	})
	if err != nil {
		g.logger.Error("failed to get pull request", "owner", owner, "repo", repo, "pr", number, "error", err)
		return nil, err
	}
	return pr, nil
}

func (g *gitHubClient) GetPullRequestDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	var diff string
	err := g.retry.Do(ctx, func() error {
		var err error
		diff, _, err = g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{
			Type: github.Diff,
		})
		return err
	})
	if err != nil {
		g.logger.Error("failed to get pull request diff", "owner", owner, "repo", repo, "pr", number, "error", err)
		return "", err
	}
	return diff, nil
}

func (g *gitHubClient) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	var content string
	err := g.retry.Do(ctx, func() error {
		file, _, resp, err := g.client.Repositories.GetContents(ctx, owner, repo, path, &github.RepositoryContentGetOptions{
			Ref: ref,
		})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				return Permanent(ErrFileNotFound)
			}
			return err
		}
		if file == nil {
			return Permanent(ErrFileNotFound)
		}
		content, err = file.GetContent()
		if err != nil {
			return Permanent(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrFileNotFound) {
			g.logger.Error("failed to get file content", "owner", owner, "repo", repo, "path", path, "ref", ref, "error", err)
		}
		return "", err
	}
	return content, nil
}

func (g *gitHubClient) CreateReview(ctx context.Context, owner, repo string, number int, commitID string, findings []core.Finding) error {
	comments := make([]*github.DraftReviewComment, 0, len(findings))
	for _, f := range findings {
		comments = append(comments, &github.DraftReviewComment{
			Path:     github.Ptr(f.Path),
			Position: github.Ptr(f.Position),
			Body:     github.Ptr(f.Body),
		})
	}

	reviewRequest := &github.PullRequestReviewRequest{
		CommitID: github.Ptr(commitID),
		Event:    github.Ptr("COMMENT"),
		Comments: comments,
	}

	err := g.retry.Do(ctx, func() error {
		_, _, err := g.client.PullRequests.CreateReview(ctx, owner, repo, number, reviewRequest)
		return err
	})
	if err != nil {
		g.logger.Error("failed to create pull request review", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}

func (g *gitHubClient) CreateComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}
	err := g.retry.Do(ctx, func() error {
		_, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, comment)
		return err
	})
	if err != nil {
		g.logger.Error("failed to create comment", "owner", owner, "repo", repo, "pr", number, "error", err)
	}
	return err
}
