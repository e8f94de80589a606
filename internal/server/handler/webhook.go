// Package handler provides the HTTP handlers of the webhook service.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/ullrai/pr-review-bot/internal/config"
	"github.com/ullrai/pr-review-bot/internal/core"
)

// WebhookHandler processes incoming webhooks from GitHub. It verifies the
// request signature, classifies the event, and hands accepted events to the
// background dispatcher so the HTTP response never waits on a review.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHubWebhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	deliveryID := github.DeliveryID(r)

	var (
		reviewEvent *core.ReviewEvent
		classifyErr error
	)
	switch e := event.(type) {
	case *github.PullRequestEvent:
		reviewEvent, classifyErr = core.EventFromPullRequest(e)
	case *github.IssueCommentEvent:
		reviewEvent, classifyErr = core.EventFromIssueComment(e, h.cfg.BotMention)
	default:
		h.logger.Debug("ignoring unhandled webhook event type",
			"type", github.WebHookType(r), "delivery_id", deliveryID)
		_, _ = fmt.Fprint(w, "Event type not handled")
		return
	}

	if classifyErr != nil {
		h.logger.Debug("ignoring webhook event",
			"reason", classifyErr.Error(),
			"type", github.WebHookType(r),
			"delivery_id", deliveryID,
		)
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	reviewEvent.DeliveryID = deliveryID

	if err := h.dispatcher.Dispatch(r.Context(), reviewEvent); err != nil {
		h.logger.Error("failed to dispatch review job", "error", err, "repo", reviewEvent.RepoFullName)
		http.Error(w, "Failed to start review job", http.StatusInternalServerError)
		return
	}

	h.logger.Info("review job dispatched",
		"repo", reviewEvent.RepoFullName,
		"pr", reviewEvent.PRNumber,
		"delivery_id", deliveryID,
	)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Review job accepted")
}
