package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ullrai/pr-review-bot/internal/config"
	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/diff"
	"github.com/ullrai/pr-review-bot/internal/github"
	"github.com/ullrai/pr-review-bot/internal/llm"
)

// ReviewJob performs one AI review run for an accepted webhook event: it
// resolves the repository policy, fetches and parses the pull request diff,
// reviews each in-scope file with the model, and submits the collected
// findings as one batched inline review.
type ReviewJob struct {
	cfg     *config.Config
	gh      github.Client
	gen     llm.Generator
	prompts *llm.PromptBuilder
	logger  *slog.Logger
}

// NewReviewJob creates a ReviewJob with its collaborators.
func NewReviewJob(cfg *config.Config, gh github.Client, gen llm.Generator, prompts *llm.PromptBuilder, logger *slog.Logger) *ReviewJob {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if gh == nil {
		panic("github client cannot be nil")
	}
	if gen == nil {
		panic("generator cannot be nil")
	}
	if prompts == nil {
		panic("prompt builder cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{cfg: cfg, gh: gh, gen: gen, prompts: prompts, logger: logger}
}

// Run executes the review job for a given event.
func (j *ReviewJob) Run(ctx context.Context, event *core.ReviewEvent) error {
	outcome, err := j.Execute(ctx, event)
	if err != nil {
		return err
	}
	j.logger.Info("review run finished",
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
		"outcome", outcome.Kind,
		"findings", outcome.Findings,
	)
	return nil
}

// Execute runs the full review pipeline and reports how it ended. A failure
// to fetch the diff or to submit the final review is fatal for the run; a
// failed model call only drops that file's finding.
func (j *ReviewJob) Execute(ctx context.Context, event *core.ReviewEvent) (core.Outcome, error) {
	if err := validateEvent(event); err != nil {
		return core.Outcome{}, fmt.Errorf("input validation failed: %w", err)
	}

	j.logger.Info("starting review", "repo", event.RepoFullName, "pr", event.PRNumber)

	// Comment-triggered events carry no head SHA; resolve it from the live
	// pull request.
	if event.HeadSHA == "" {
		pr, err := j.gh.GetPullRequest(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
		if err != nil {
			return core.Outcome{}, fmt.Errorf("failed to get pull request: %w", err)
		}
		if pr.GetHead().GetSHA() == "" {
			return core.Outcome{}, fmt.Errorf("pull request %d has no valid head SHA", event.PRNumber)
		}
		event.HeadSHA = pr.GetHead().GetSHA()
	}

	policy := resolveRepoPolicy(ctx, j.gh, event, j.logger)

	rawDiff, err := j.gh.GetPullRequestDiff(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return core.Outcome{}, fmt.Errorf("failed to fetch pull request diff: %w", err)
	}
	if strings.TrimSpace(rawDiff) == "" {
		j.logger.Info("no diff found, skipping review", "repo", event.RepoFullName, "pr", event.PRNumber)
		return core.Outcome{Kind: core.OutcomeSkipped}, nil
	}

	files := diff.Parse(rawDiff)
	findings := j.reviewFiles(ctx, event, files, policy)

	if len(findings) == 0 {
		j.logger.Info("no findings to post", "repo", event.RepoFullName, "pr", event.PRNumber)
		return core.Outcome{Kind: core.OutcomeNoFindings}, nil
	}

	// Stable ordering for the submitted review.
	sort.Slice(findings, func(a, b int) bool {
		if findings[a].Path != findings[b].Path {
			return findings[a].Path < findings[b].Path
		}
		return findings[a].Position < findings[b].Position
	})

	if err := j.gh.CreateReview(ctx, event.RepoOwner, event.RepoName, event.PRNumber, event.HeadSHA, findings); err != nil {
		return core.Outcome{}, fmt.Errorf("failed to submit review: %w", err)
	}

	return core.Outcome{Kind: core.OutcomeReviewed, Findings: len(findings)}, nil
}

// reviewFiles fans model calls out over the in-scope files, bounded by the
// configured concurrency. Per-file failures are logged and contribute no
// finding; they never abort the remaining files.
func (j *ReviewJob) reviewFiles(ctx context.Context, event *core.ReviewEvent, files []diff.FileDiff, policy *core.RepoPolicy) []core.Finding {
	var (
		mu       sync.Mutex
		findings []core.Finding
	)

	limit := j.cfg.ReviewConcurrency
	if limit <= 0 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, file := range files {
		if len(file.Hunks) == 0 {
			j.logger.Debug("skipping file without hunks", "path", file.Path)
			continue
		}
		if !policy.AllowsPath(file.Path) {
			j.logger.Info("skipping file excluded by policy", "path", file.Path)
			continue
		}

		g.Go(func() error {
			finding, ok := j.reviewFile(ctx, event, file, policy)
			if ok {
				mu.Lock()
				findings = append(findings, finding)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return findings
}

// reviewFile runs one model call and maps the result to a position-anchored
// finding. ok is false when the file is clean, the model call failed, or no
// hunk has a changed line to anchor the comment to.
func (j *ReviewJob) reviewFile(ctx context.Context, event *core.ReviewEvent, file diff.FileDiff, policy *core.RepoPolicy) (core.Finding, bool) {
	prompt, err := j.prompts.Build(file.Path, file.Text, policy)
	if err != nil {
		j.logger.Warn("failed to build prompt, skipping file", "path", file.Path, "error", err)
		return core.Finding{}, false
	}

	body, err := j.gen.Review(ctx, prompt)
	if err != nil {
		j.logger.Warn("model call failed, skipping file",
			"repo", event.RepoFullName, "pr", event.PRNumber, "path", file.Path, "error", err)
		return core.Finding{}, false
	}

	if llm.IsNoIssues(body) {
		j.logger.Debug("no issues reported", "path", file.Path)
		return core.Finding{}, false
	}

	position, ok := diff.FirstChangedPosition(file.Hunks)
	if !ok {
		j.logger.Info("no changed line to anchor comment, dropping finding", "path", file.Path)
		return core.Finding{}, false
	}

	return core.Finding{Path: file.Path, Position: position, Body: body}, true
}

func validateEvent(event *core.ReviewEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.RepoOwner == "" {
		return fmt.Errorf("repository owner cannot be empty")
	}
	if event.RepoName == "" {
		return fmt.Errorf("repository name cannot be empty")
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("pull request number must be positive, got: %d", event.PRNumber)
	}
	return nil
}
