package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/ullrai/pr-review-bot/internal/core"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptBuilder assembles per-file review prompts from the embedded default
// template or a repository's custom prompt.
type PromptBuilder struct {
	defaultTmpl *template.Template
}

// promptData carries the values rendered into the default template.
type promptData struct {
	Filename       string
	FileDiff       string
	OutputLanguage string
	Sentinel       string
}

// NewPromptBuilder parses the embedded default review template.
func NewPromptBuilder() (*PromptBuilder, error) {
	content, err := promptFiles.ReadFile("prompts/code_review_default.prompt")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompt file: %w", err)
	}

	tmpl, err := template.New("code_review_default").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("could not parse default prompt template: %w", err)
	}

	return &PromptBuilder{defaultTmpl: tmpl}, nil
}

// Build assembles the review prompt for one file. When the policy carries a
// custom prompt it is used with bounded placeholder substitution; otherwise
// the default template is rendered.
func (b *PromptBuilder) Build(path, diffText string, policy *core.RepoPolicy) (string, error) {
	language := policy.ReviewLanguage
	if language == "" {
		language = core.DefaultRepoPolicy().ReviewLanguage
	}

	if policy.CustomPrompt != "" {
		return renderCustomPrompt(policy.CustomPrompt, path, diffText, language), nil
	}

	var buf bytes.Buffer
	err := b.defaultTmpl.Execute(&buf, promptData{
		Filename:       path,
		FileDiff:       diffText,
		OutputLanguage: language,
		Sentinel:       NoIssuesSentinel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render review prompt: %w", err)
	}
	return buf.String(), nil
}

// renderCustomPrompt substitutes the fixed allow-list of placeholders into a
// repository's custom prompt. Unknown placeholders are left untouched; the
// template text is never evaluated as code.
func renderCustomPrompt(tmpl, path, diffText, language string) string {
	return strings.NewReplacer(
		"{filename}", path,
		"{file_diff}", diffText,
		"{output_language}", language,
	).Replace(tmpl)
}
