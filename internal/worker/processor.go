package worker

import (
	"context"
	"fmt"
	"log/slog"

	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/queue"
)

// ActivityProcessor applies the side effects of one activity event.
type ActivityProcessor struct {
	wordClouds WordCloudRecorder
}

func NewActivityProcessor(wordClouds WordCloudRecorder) *ActivityProcessor {
	return &ActivityProcessor{wordClouds: wordClouds}
}

// Process reports whether msg needed work. Events without a consumer-side
// effect are skipped and can be acknowledged straight away.
func (p *ActivityProcessor) Process(ctx context.Context, msg queue.Message) (bool, error) {
	switch msg.Type {
	case model.ActivityMessageCreated:
		if err := p.wordClouds.RecordMessage(ctx, msg.MessageID); err != nil {
			return true, fmt.Errorf("recording message %s in word cloud: %w", msg.MessageID, err)
		}
		return true, nil
	default:
		slog.DebugContext(ctx, "no handler for activity event, skipping")
		return false, nil
	}
}
