// Package core defines the domain types and interfaces shared by the
// review pipeline: events, repository policies, findings and the job
// contracts that connect the webhook boundary to the background workers.
package core

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v73/github"
)

// ReviewEvent is the internal representation of a webhook event that has
// been accepted for review. It is immutable after classification except for
// HeadSHA, which the orchestrator resolves for comment-triggered events.
type ReviewEvent struct {
	RepoOwner    string
	RepoName     string
	RepoFullName string

	PRNumber int

	// HeadSHA is the target commit of the review. Set directly from the
	// payload for pull_request events; resolved via the API for comment
	// commands.
	HeadSHA string

	// Command and Args are populated for comment-triggered events.
	Command string
	Args    string

	// DeliveryID is the webhook delivery identifier, used for logging and
	// redelivery deduplication.
	DeliveryID string
}

// pull_request actions that trigger an automatic review.
var reviewableActions = map[string]struct{}{
	"opened":      {},
	"synchronize": {},
	"reopened":    {},
}

// comment commands the bot responds to.
var knownCommands = map[string]struct{}{
	"re-review": {},
	"review":    {},
}

// EventFromPullRequest classifies a pull_request webhook event. It accepts
// opened, synchronize and reopened actions on non-draft pull requests and
// returns an error describing the rejection otherwise.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewEvent, error) {
	action := event.GetAction()
	if _, ok := reviewableActions[action]; !ok {
		return nil, fmt.Errorf("action %q does not trigger a review", action)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request data is missing from the event")
	}
	if pr.GetDraft() {
		return nil, fmt.Errorf("pull request is a draft")
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}

	prNumber := pr.GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	headSHA := pr.GetHead().GetSHA()
	if headSHA == "" {
		return nil, fmt.Errorf("pull request has no head SHA")
	}

	return &ReviewEvent{
		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		PRNumber:     prNumber,
		HeadSHA:      headSHA,
	}, nil
}

// EventFromIssueComment classifies an issue_comment webhook event. It accepts
// newly created comments on pull requests whose body carries the bot mention
// followed by a recognized command. The head SHA is left empty; the
// orchestrator resolves it against the live pull request.
func EventFromIssueComment(event *github.IssueCommentEvent, mention string) (*ReviewEvent, error) {
	if event.GetAction() != "created" {
		return nil, fmt.Errorf("comment action %q is not a new comment", event.GetAction())
	}
	if !event.GetIssue().IsPullRequest() {
		return nil, fmt.Errorf("comment is not on a pull request")
	}

	command, args, ok := ParseCommand(event.GetComment().GetBody(), mention)
	if !ok {
		return nil, fmt.Errorf("comment does not contain a bot command")
	}
	if _, known := knownCommands[command]; !known {
		return nil, fmt.Errorf("unrecognized command %q", command)
	}

	repo := event.GetRepo()
	if repo == nil || repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return nil, fmt.Errorf("repository information is missing from the event")
	}

	prNumber := event.GetIssue().GetNumber()
	if prNumber <= 0 {
		return nil, fmt.Errorf("invalid pull request number: %d", prNumber)
	}

	return &ReviewEvent{
		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		PRNumber:     prNumber,
		Command:      command,
		Args:         args,
	}, nil
}

// ParseCommand scans a comment body for the bot mention and extracts the
// command that follows it. The mention must appear as a whole
// whitespace-delimited token. Lines are scanned top to bottom and the first
// line that carries both the mention and a following token wins; a line
// where the mention is the last token does not stop the scan. Args are the
// remaining tokens of that line joined by single spaces.
func ParseCommand(body, mention string) (command, args string, ok bool) {
	if body == "" || mention == "" {
		return "", "", false
	}

	for _, line := range strings.Split(body, "\n") {
		tokens := strings.Fields(line)
		for i, tok := range tokens {
			if tok != mention {
				continue
			}
			if i+1 >= len(tokens) {
				break // mention with no command on this line
			}
			return tokens[i+1], strings.Join(tokens[i+2:], " "), true
		}
	}
	return "", "", false
}
