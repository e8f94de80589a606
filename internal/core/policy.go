package core

import "strings"

// RepoPolicy represents the structure of the .pr-review-bot.yml file that a
// repository may carry to tune its reviews. All fields are optional; the
// zero-configuration behavior is "review everything, in English, with the
// default prompt".
type RepoPolicy struct {
	// Path prefixes that are never reviewed. Checked before IncludePaths.
	ExcludePaths []string `yaml:"exclude_paths"`

	// Path prefixes to restrict reviews to. Empty means no restriction.
	IncludePaths []string `yaml:"include_paths"`

	// Language the review findings are written in.
	ReviewLanguage string `yaml:"review_language"`

	// Optional prompt template with {filename}, {file_diff} and
	// {output_language} placeholders.
	CustomPrompt string `yaml:"custom_prompt"`
}

// DefaultRepoPolicy returns a policy with default values.
func DefaultRepoPolicy() *RepoPolicy {
	return &RepoPolicy{
		ReviewLanguage: "english",
	}
}

// AllowsPath reports whether a file path is in scope for review under this
// policy. An exclude match always wins; when include prefixes are set, the
// path must match one of them.
func (p *RepoPolicy) AllowsPath(path string) bool {
	for _, prefix := range p.ExcludePaths {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	if len(p.IncludePaths) == 0 {
		return true
	}
	for _, prefix := range p.IncludePaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
