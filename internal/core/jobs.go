package core

import "context"

// Finding is a single inline review comment produced for one file. Position
// is the 1-based diff-position coordinate expected by the review API, not an
// absolute file line number.
type Finding struct {
	Path     string
	Position int
	Body     string
}

// OutcomeKind describes how an orchestration run ended without erroring.
type OutcomeKind string

const (
	// OutcomeReviewed means a batched review was submitted.
	OutcomeReviewed OutcomeKind = "reviewed"
	// OutcomeNoFindings means every file came back clean; nothing was posted.
	OutcomeNoFindings OutcomeKind = "no_findings"
	// OutcomeSkipped means the pull request had no diff to review.
	OutcomeSkipped OutcomeKind = "skipped"
)

// Outcome summarizes a completed review run.
type Outcome struct {
	Kind     OutcomeKind
	Findings int
}

// JobDispatcher defines the contract for a system that accepts review events
// and queues them for asynchronous processing. It decouples the webhook
// handler from the job execution mechanism.
type JobDispatcher interface {
	// Dispatch queues an event for processing. It returns an error when the
	// event cannot be queued, for example when the queue is full, providing
	// a backpressure signal to the caller.
	Dispatch(ctx context.Context, event *ReviewEvent) error

	// Stop shuts the dispatcher down, waiting for in-flight jobs to finish.
	Stop()
}

// Job represents a single executable unit of work triggered by a
// ReviewEvent.
type Job interface {
	// Run executes the job's logic and returns an error if it fails.
	Run(ctx context.Context, event *ReviewEvent) error
}
