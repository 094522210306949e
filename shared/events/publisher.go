package events

import (
	"context"
	"errors"
	"log/slog"
)

// Publisher delivers an event to a topic
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
}

// LoggingPublisher writes events to the log only
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, topic string, event Event) error {
	p.logger.InfoContext(ctx, "event published",
		"topic", topic,
		"event_type", event.Type,
		"event_id", event.ID.String(),
		"tenant_id", event.TenantID,
		"actor_id", event.ActorID,
	)
	return nil
}

// MultiPublisher fans an event out to every publisher and joins their errors
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) Publish(ctx context.Context, topic string, event Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
