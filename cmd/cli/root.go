package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "prbot-cli",
	Short: "prbot-cli is the command-line interface for the PR review bot.",
	Long:  `A CLI for exercising the review pipeline locally, such as dry-running a review over a saved diff file without touching GitHub.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(reviewCmd)
}
