package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ullrai/pr-review-bot/internal/core"
)

func TestPromptBuilder_DefaultTemplate(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	prompt, err := b.Build("src/main.go", "+added line", core.DefaultRepoPolicy())
	require.NoError(t, err)

	assert.Contains(t, prompt, "'src/main.go'")
	assert.Contains(t, prompt, "```diff\n+added line\n```")
	assert.Contains(t, prompt, "Output language: english")
	assert.Contains(t, prompt, NoIssuesSentinel)
}

func TestPromptBuilder_ReviewLanguage(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	policy := core.DefaultRepoPolicy()
	policy.ReviewLanguage = "german"

	prompt, err := b.Build("main.go", "+x", policy)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Output language: german")
}

func TestPromptBuilder_CustomPrompt(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	policy := core.DefaultRepoPolicy()
	policy.CustomPrompt = "Review {filename} in {output_language}:\n{file_diff}"

	prompt, err := b.Build("a.go", "+line", policy)
	require.NoError(t, err)
	assert.Equal(t, "Review a.go in english:\n+line", prompt)
}

func TestPromptBuilder_CustomPromptUnknownPlaceholder(t *testing.T) {
	b, err := NewPromptBuilder()
	require.NoError(t, err)

	policy := core.DefaultRepoPolicy()
	policy.CustomPrompt = "{filename} {not_a_placeholder} {file_diff}"

	prompt, err := b.Build("a.go", "+line", policy)
	require.NoError(t, err)
	// Unknown placeholders stay literal; nothing is evaluated.
	assert.Equal(t, "a.go {not_a_placeholder} +line", prompt)
}

func TestIsNoIssues(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{"No issues found.", true},
		{"  No issues found.\n", true},
		{"No issues found", false},
		{"Looks good, but consider renaming x.", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsNoIssues(tt.body); got != tt.want {
			t.Errorf("IsNoIssues(%q) = %v, want %v", strings.TrimSpace(tt.body), got, tt.want)
		}
	}
}
