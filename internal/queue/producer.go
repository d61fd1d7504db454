package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/model"
)

type Producer interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Publish(ctx context.Context, event model.ActivityEvent) error {
	msg := Message{
		EventID:    event.ID,
		Type:       event.Type,
		ActorID:    event.ActorID,
		NeedID:     event.NeedID,
		PollID:     event.PollID,
		MessageID:  event.MessageID,
		OptionID:   event.OptionID,
		TraceID:    event.TraceID,
		OccurredAt: event.OccurredAt,
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: messageValues(msg, 1),
	}).Err(); err != nil {
		metrics.ActivityEventsTotal.WithLabelValues(string(event.Type), "failed").Inc()
		return fmt.Errorf("publish activity event: %w", err)
	}

	metrics.ActivityEventsTotal.WithLabelValues(string(event.Type), "published").Inc()
	p.logger.DebugContext(ctx, "published activity event", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// NoopProducer drops events. Used when no stream is configured.
type NoopProducer struct{}

func (NoopProducer) Publish(context.Context, model.ActivityEvent) error { return nil }

func (NoopProducer) Close() error { return nil }
