package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/queue"
)

type ReclaimerConfig struct {
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
}

// Reclaimer periodically takes over stale pending messages. This handles
// the crash recovery scenario where a worker dies after XREADGROUP but
// before XACK.
type Reclaimer struct {
	cfg       ReclaimerConfig
	consumer  Consumer
	processor queue.MessageProcessor
	clock     clockwork.Clock

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReclaimer(cfg ReclaimerConfig, consumer Consumer, processor queue.MessageProcessor, clock clockwork.Clock) *Reclaimer {
	return &Reclaimer{
		cfg:       cfg,
		consumer:  consumer,
		processor: processor,
		clock:     clock,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the reclaimer loop. Blocks until Stop() is called or ctx ends.
func (r *Reclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "needsnet.worker.reclaimer",
	})

	defer close(r.stoppedCh)

	ticker := r.clock.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started",
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.Chan():
			if _, err := r.ReclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reclaim cycle error", "error", err)
			}
		}
	}
}

func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce claims every message idle for at least MinIdle and hands each
// one to the processor. It returns how many messages were claimed.
func (r *Reclaimer) ReclaimOnce(ctx context.Context) (int, error) {
	messages, err := r.consumer.ClaimStale(ctx, r.cfg.MinIdle, r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claiming stale messages: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "reclaimed stale pending messages", "count", len(messages))

	for _, msg := range messages {
		if err := r.processor(ctx, msg); err != nil {
			// Already requeued or dead-lettered by the processor.
			slog.WarnContext(ctx, "reclaimed message failed",
				"error", err,
				"stream_id", msg.ID,
				"attempt", msg.Attempt)
		}
	}
	return len(messages), nil
}
