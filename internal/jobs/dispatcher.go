// Package jobs contains the background review job and the dispatcher that
// runs it on a bounded worker pool.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ullrai/pr-review-bot/internal/core"
)

// How long a webhook delivery ID is remembered for redelivery dedup.
const deliveryDedupWindow = time.Hour

// jobQueueCapacity bounds how many accepted events may wait for a worker.
const jobQueueCapacity = 100

// dispatcher implements core.JobDispatcher with a pool of worker goroutines
// processing review events from a buffered queue.
type dispatcher struct {
	reviewJob  core.Job
	jobQueue   chan *core.ReviewEvent
	maxWorkers int
	seen       *cache.Cache // delivery IDs already dispatched
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(reviewJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		reviewJob:  reviewJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.ReviewEvent, jobQueueCapacity),
		seen:       cache.New(deliveryDedupWindow, 10*time.Minute),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting review worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Info("shutting down review worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.ReviewEvent) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"repo", event.RepoFullName,
		"pr", event.PRNumber,
	)

	if err := d.reviewJob.Run(context.Background(), event); err != nil {
		d.logger.Error("review job failed",
			"repo", event.RepoFullName,
			"pr", event.PRNumber,
			"error", err,
		)
	}
}

// Dispatch queues a review event for processing by a worker. Redeliveries of
// a delivery ID seen within the dedup window are acknowledged but not queued
// again.
func (d *dispatcher) Dispatch(_ context.Context, event *core.ReviewEvent) error {
	if event.DeliveryID != "" {
		if err := d.seen.Add(event.DeliveryID, struct{}{}, cache.DefaultExpiration); err != nil {
			d.logger.Info("ignoring redelivered webhook event",
				"delivery_id", event.DeliveryID,
				"repo", event.RepoFullName,
				"pr", event.PRNumber,
			)
			return nil
		}
	}

	d.logger.Info("queuing review job", "repo", event.RepoFullName, "pr", event.PRNumber)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		// The event was never queued; forget its delivery ID so a
		// redelivery can still trigger the review.
		if event.DeliveryID != "" {
			d.seen.Delete(event.DeliveryID)
		}
		return fmt.Errorf("job queue is full, cannot accept new review job")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all review jobs have finished")
}
