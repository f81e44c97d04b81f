// Package notify delivers fire-and-forget notifications after workflow
// transitions. Delivery is asynchronous and best-effort: a full buffer or a
// failing sender is logged and dropped, never surfaced to the caller.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/facultydesk/leave-api/pkg/jobs"
)

// EventKind identifies the workflow transition being announced.
type EventKind string

const (
	EventLeaveApproved     EventKind = "leave.approved"
	EventLeaveRejected     EventKind = "leave.rejected"
	EventWorkloadAssigned  EventKind = "workload.assigned"
	EventWorkloadResponded EventKind = "workload.responded"
)

// Event describes a single notification to deliver.
type Event struct {
	Kind           EventKind
	RecipientEmail string
	RecipientName  string
	Subject        string
	Body           string
	OccurredAt     time.Time
}

// Sender delivers a single event. Implementations are expected to be slow
// (SMTP, webhooks) which is why delivery runs on the worker queue.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, event Event) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// LogSender writes notifications to the application log. It stands in for a
// mail transport in environments without one configured.
func LogSender(logger *zap.Logger) Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return SenderFunc(func(_ context.Context, event Event) error {
		logger.Info("notification",
			zap.String("kind", string(event.Kind)),
			zap.String("recipient", event.RecipientEmail),
			zap.String("subject", event.Subject),
		)
		return nil
	})
}

// Notifier fans events out to the sender through a bounded worker queue.
type Notifier struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// Config tunes the notifier's worker pool.
type Config struct {
	Workers    int
	BufferSize int
}

// NewNotifier wires a sender behind an async queue.
func NewNotifier(sender Sender, cfg Config, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		event, ok := job.Payload.(Event)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return sender.Send(ctx, event)
	}
	queue := jobs.NewQueue("notifications", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return &Notifier{queue: queue, logger: logger}
}

// Start launches the delivery workers.
func (n *Notifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the workers.
func (n *Notifier) Stop() {
	n.queue.Stop()
}

// Notify enqueues an event. Failures are logged and swallowed so that a
// notification problem can never block or roll back a state transition.
func (n *Notifier) Notify(_ context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	err := n.queue.TryEnqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    string(event.Kind),
		Payload: event,
	})
	if err != nil {
		n.logger.Warn("dropping notification", zap.String("kind", string(event.Kind)), zap.Error(err))
	}
}
