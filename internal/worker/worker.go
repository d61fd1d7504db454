package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/queue"
)

const errorBackoff = time.Second

type Config struct {
	MaxAttempts int
}

type Worker struct {
	consumer  Consumer
	processor *ActivityProcessor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, processor *ActivityProcessor, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "needsnet.worker.activity",
	})
	slog.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-time.After(errorBackoff):
				case <-ctx.Done():
				case <-w.stopCh:
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.HandleMessage(ctx, msg)
	}
	return nil
}

// HandleMessage processes msg and settles it on the stream: acked on
// success, requeued on failure, dead-lettered once attempts run out.
// Exported so the reclaimer can reuse it.
func (w *Worker) HandleMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		StreamID:  logger.Ptr(msg.ID),
		EventType: logger.Ptr(string(msg.Type)),
	})
	if msg.NeedID != "" {
		ctx = logger.WithLogFields(ctx, logger.LogFields{NeedID: logger.Ptr(msg.NeedID)})
	}
	if msg.MessageID != "" {
		ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: logger.Ptr(msg.MessageID)})
	}

	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.activity."+string(msg.Type))
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	handled, err := w.processMessageSafe(ctx, msg)
	metrics.WorkerProcessingDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"attempt", msg.Attempt)
		w.handleFailedMessage(ctx, msg, err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer will deliver it again; recording a message twice is a no-op.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}

	if handled {
		metrics.WorkerMessagesTotal.WithLabelValues("processed").Inc()
		slog.InfoContext(ctx, "activity event processed",
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		metrics.WorkerMessagesTotal.WithLabelValues("skipped").Inc()
	}
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (handled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing", "panic", r)
			handled = true
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, msg)
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
			return
		}
		metrics.WorkerMessagesTotal.WithLabelValues("dead_lettered").Inc()
		return
	}

	slog.WarnContext(ctx, "requeuing failed message", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
		return
	}
	metrics.WorkerMessagesTotal.WithLabelValues("requeued").Inc()
}
