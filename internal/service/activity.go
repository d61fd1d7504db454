package service

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/id"
	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/model"
)

// ActivityPublisher sends activity events to the stream the worker reads.
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

type activityRecorder struct {
	publisher ActivityPublisher
	clock     clockwork.Clock
}

// record publishes event after the write it describes has been persisted.
// Failures are logged and never surface to the caller.
func (r activityRecorder) record(ctx context.Context, event model.ActivityEvent) {
	if r.publisher == nil {
		return
	}

	event.ID = id.NewEventID()
	event.OccurredAt = r.clock.Now().UTC()
	if event.TraceID == "" {
		event.TraceID = traceID(ctx)
	}

	if err := r.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish activity event",
			"error", err,
			"event_type", event.Type)
	}
}

func traceID(ctx context.Context) string {
	if tid := logger.TraceID(ctx); tid != "" {
		return tid
	}
	if fields := logger.GetLogFields(ctx); fields.RequestID != nil {
		return *fields.RequestID
	}
	return ""
}
