// Package notify publishes job lifecycle events to the message bus.
// Publishing is best-effort: the tracker works fine without a broker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/st-studio/job-tracker/internal/api/domain"
	"github.com/st-studio/job-tracker/shared/rabbitmq"
)

// Notifier publishes JobEvents over RabbitMQ.
type Notifier struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

func NewNotifier(client *rabbitmq.Client, logger *slog.Logger) *Notifier {
	return &Notifier{
		client: client,
		logger: logger,
	}
}

func (n *Notifier) PublishJobEvent(ctx context.Context, event domain.JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := n.client.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	n.logger.Debug("Job event published",
		slog.String("job_id", event.JobID),
		slog.String("status", event.Status),
	)

	return nil
}

// NoopPublisher drops events. Wired when RabbitMQ is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishJobEvent(ctx context.Context, event domain.JobEvent) error {
	return nil
}
