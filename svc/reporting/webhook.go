package reporting

import (
	"context"
	"errors"

	"github.com/dmitrymomot/dataguard/pkg/quality"
)

// Run event types posted to the webhook.
const (
	EventRunPassed = "run.passed"
	EventRunWarned = "run.warned"
	EventRunFailed = "run.failed"
)

// EventSender posts one event; *webhook.Sender satisfies it.
type EventSender interface {
	Send(ctx context.Context, event any) error
}

// RunEvent is the webhook payload of a finished run.
type RunEvent struct {
	Type string `json:"type"`
	RunSummary
}

// WebhookSink posts a RunEvent for every report. With onlyFailures set,
// passed runs are not posted.
type WebhookSink struct {
	sender       EventSender
	onlyFailures bool
}

func NewWebhookSink(sender EventSender, onlyFailures bool) *WebhookSink {
	return &WebhookSink{sender: sender, onlyFailures: onlyFailures}
}

// NewRunEvent maps a report to its event.
func NewRunEvent(r *quality.Report) RunEvent {
	typ := EventRunPassed
	switch r.Summary.Status {
	case quality.StatusFailed:
		typ = EventRunFailed
	case quality.StatusWarned:
		typ = EventRunWarned
	}
	return RunEvent{Type: typ, RunSummary: NewRunSummary(r)}
}

func (s *WebhookSink) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}
	if s.onlyFailures && r.Summary.Status == quality.StatusPassed {
		return nil
	}
	if err := s.sender.Send(ctx, NewRunEvent(r)); err != nil {
		return errors.Join(ErrPublishEvent, err)
	}
	return nil
}
