package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ullrai/pr-review-bot/internal/core"
	"github.com/ullrai/pr-review-bot/internal/diff"
	"github.com/ullrai/pr-review-bot/internal/llm"
)

var (
	diffFile   string
	policyFile string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Dry-run the review pipeline over a local diff file.",
	Long: `Parses a saved unified diff, applies an optional local policy file, and
prints the per-file prompts the bot would send to the model, together with
the diff position each finding would be anchored at.`,
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	reviewCmd.Flags().StringVarP(&diffFile, "diff", "d", "", "Path to a unified diff file (required)")
	reviewCmd.Flags().StringVarP(&policyFile, "policy", "p", "", "Path to a local .pr-review-bot.yml policy file")
	_ = reviewCmd.MarkFlagRequired("diff")
}

func runReview(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(diffFile)
	if err != nil {
		return fmt.Errorf("failed to read diff file: %w", err)
	}

	policy, err := loadLocalPolicy(policyFile)
	if err != nil {
		return err
	}

	prompts, err := llm.NewPromptBuilder()
	if err != nil {
		return fmt.Errorf("failed to initialize prompt builder: %w", err)
	}

	files := diff.Parse(string(raw))
	if len(files) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "diff contains no file changes")
		return nil
	}

	for _, file := range files {
		if len(file.Hunks) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s: no hunks, skipped\n", file.Path)
			continue
		}
		if !policy.AllowsPath(file.Path) {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s: excluded by policy\n", file.Path)
			continue
		}

		prompt, err := prompts.Build(file.Path, file.Text, policy)
		if err != nil {
			return fmt.Errorf("failed to build prompt for %s: %w", file.Path, err)
		}

		position, ok := diff.FirstChangedPosition(file.Hunks)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s: no changed line, a finding would be dropped\n", file.Path)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "== %s (comment position %d)\n%s\n", file.Path, position, prompt)
	}
	return nil
}

// loadLocalPolicy reads a policy file from disk, mirroring the silent
// defaulting the resolver applies to files fetched from a repository.
func loadLocalPolicy(path string) (*core.RepoPolicy, error) {
	if path == "" {
		return core.DefaultRepoPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	policy := core.DefaultRepoPolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}
	if policy.ReviewLanguage == "" {
		policy.ReviewLanguage = core.DefaultRepoPolicy().ReviewLanguage
	}
	return policy, nil
}
