package jobs

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/github"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testEvent() *core.ReviewEvent {
	return &core.ReviewEvent{
		RepoOwner:    "acme",
		RepoName:     "widgets",
		RepoFullName: "acme/widgets",
		PRNumber:     7,
		HeadSHA:      "abc123",
	}
}

func TestResolveRepoPolicy(t *testing.T) {
	tests := []struct {
		name string
		gh   *fakeGitHubClient
		want *core.RepoPolicy
	}{
		{
			name: "Missing file yields defaults",
			gh:   &fakeGitHubClient{fileErr: github.ErrFileNotFound},
			want: core.DefaultRepoPolicy(),
		},
		{
			name: "Fetch failure yields defaults",
			gh:   &fakeGitHubClient{fileErr: errors.New("boom")},
			want: core.DefaultRepoPolicy(),
		},
		{
			name: "Malformed yaml yields defaults",
			gh:   &fakeGitHubClient{fileContent: "exclude_paths: [unclosed"},
			want: core.DefaultRepoPolicy(),
		},
		{
			name: "Schema mismatch yields defaults",
			gh:   &fakeGitHubClient{fileContent: "exclude_paths: 42"},
			want: core.DefaultRepoPolicy(),
		},
		{
			name: "Valid policy parsed",
			gh:   &fakeGitHubClient{fileContent: "exclude_paths:\n  - vendor/\nreview_language: german\n"},
			want: &core.RepoPolicy{
				ExcludePaths:   []string{"vendor/"},
				ReviewLanguage: "german",
			},
		},
		{
			name: "Missing language falls back to default",
			gh:   &fakeGitHubClient{fileContent: "include_paths:\n  - src/\n"},
			want: &core.RepoPolicy{
				IncludePaths:   []string{"src/"},
				ReviewLanguage: "english",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveRepoPolicy(context.Background(), tt.gh, testEvent(), testLogger())
			assert.Equal(t, tt.want, got)
		})
	}
}
