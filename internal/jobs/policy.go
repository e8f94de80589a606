package jobs

import (
	"context"
	"errors"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/github"
)

// PolicyFileName is the well-known per-repository configuration file,
// fetched from the head commit of the pull request under review.
const PolicyFileName = ".pr-review-bot.yml"

// resolveRepoPolicy fetches and parses the repository's policy file at the
// event's head commit. Any failure, from a missing file to malformed yaml,
// falls back to the default policy; policy resolution never fails a run.
func resolveRepoPolicy(ctx context.Context, gh github.Client, event *core.ReviewEvent, logger *slog.Logger) *core.RepoPolicy {
	content, err := gh.GetFileContent(ctx, event.RepoOwner, event.RepoName, PolicyFileName, event.HeadSHA)
	if err != nil {
		if !errors.Is(err, github.ErrFileNotFound) {
			logger.Warn("could not load repo policy, using defaults",
				"repo", event.RepoFullName, "error", err)
		}
		return core.DefaultRepoPolicy()
	}

	policy := core.DefaultRepoPolicy()
	if err := yaml.Unmarshal([]byte(content), policy); err != nil {
		logger.Warn("could not parse repo policy, using defaults",
			"repo", event.RepoFullName, "file", PolicyFileName, "error", err)
		// Discard anything a partial unmarshal may have written.
		return core.DefaultRepoPolicy()
	}
	if policy.ReviewLanguage == "" {
		policy.ReviewLanguage = core.DefaultRepoPolicy().ReviewLanguage
	}
	return policy
}
