package worker

import (
	"context"
	"time"

	"needsnet.app/api/internal/queue"
)

// Consumer abstracts the activity stream for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	ClaimStale(ctx context.Context, minIdle time.Duration, count int64) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// WordCloudRecorder is the slice of the word cloud service the worker drives.
type WordCloudRecorder interface {
	RecordMessage(ctx context.Context, messageID string) error
}
