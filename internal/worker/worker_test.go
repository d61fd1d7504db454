package worker_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/queue"
	"needsnet.app/api/internal/worker"
)

type fakeConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	stale    []queue.Message
	acked    []string
	requeued []string
	dlq      []string
	readErr  error
}

func (c *fakeConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	c.mu.Lock()
	if c.readErr != nil {
		c.mu.Unlock()
		return nil, c.readErr
	}
	if len(c.batches) > 0 {
		batch := c.batches[0]
		c.batches = c.batches[1:]
		c.mu.Unlock()
		return batch, nil
	}
	c.mu.Unlock()

	select {
	case <-time.After(5 * time.Millisecond):
	case <-ctx.Done():
	}
	return nil, nil
}

func (c *fakeConsumer) ClaimStale(_ context.Context, _ time.Duration, _ int64) ([]queue.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	claimed := c.stale
	c.stale = nil
	return claimed, nil
}

func (c *fakeConsumer) Ack(_ context.Context, msg queue.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acked = append(c.acked, msg.ID)
	return nil
}

func (c *fakeConsumer) Requeue(_ context.Context, msg queue.Message, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requeued = append(c.requeued, msg.ID)
	return nil
}

func (c *fakeConsumer) SendDLQ(_ context.Context, msg queue.Message, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dlq = append(c.dlq, msg.ID)
	return nil
}

func (c *fakeConsumer) ackedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.acked...)
}

type fakeRecorder struct {
	mu       sync.Mutex
	recorded []string
	err      error
	panicMsg string
}

func (r *fakeRecorder) RecordMessage(_ context.Context, messageID string) error {
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, messageID)
	return r.err
}

func (r *fakeRecorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.recorded...)
}

func messageCreated(streamID, messageID string, attempt int) queue.Message {
	return queue.Message{
		ID:        streamID,
		EventID:   1,
		Type:      model.ActivityMessageCreated,
		NeedID:    "64b000000000000000000001",
		MessageID: messageID,
		Attempt:   attempt,
	}
}

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		consumer *fakeConsumer
		recorder *fakeRecorder
		w        *worker.Worker
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &fakeConsumer{}
		recorder = &fakeRecorder{}
		w = worker.New(consumer, worker.NewActivityProcessor(recorder), worker.Config{MaxAttempts: 3})
	})

	Describe("HandleMessage", func() {
		It("records created messages and acks them", func() {
			before := testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("processed"))

			Expect(w.HandleMessage(ctx, messageCreated("1-0", "m1", 1))).To(Succeed())

			Expect(recorder.ids()).To(Equal([]string{"m1"}))
			Expect(consumer.ackedIDs()).To(Equal([]string{"1-0"}))
			Expect(testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("processed"))).To(Equal(before + 1))
		})

		It("acks other event types without work", func() {
			before := testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("skipped"))

			msg := queue.Message{ID: "2-0", Type: model.ActivityPollVoted, PollID: "p1", Attempt: 1}
			Expect(w.HandleMessage(ctx, msg)).To(Succeed())

			Expect(recorder.ids()).To(BeEmpty())
			Expect(consumer.ackedIDs()).To(Equal([]string{"2-0"}))
			Expect(testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("skipped"))).To(Equal(before + 1))
		})

		It("requeues failures while attempts remain", func() {
			recorder.err = errors.New("arango down")

			err := w.HandleMessage(ctx, messageCreated("3-0", "m3", 1))

			Expect(err).To(MatchError(ContainSubstring("arango down")))
			Expect(consumer.requeued).To(Equal([]string{"3-0"}))
			Expect(consumer.dlq).To(BeEmpty())
			Expect(consumer.ackedIDs()).To(BeEmpty())
		})

		It("dead-letters once attempts are exhausted", func() {
			recorder.err = errors.New("arango down")
			before := testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("dead_lettered"))

			Expect(w.HandleMessage(ctx, messageCreated("4-0", "m4", 3))).NotTo(Succeed())

			Expect(consumer.dlq).To(Equal([]string{"4-0"}))
			Expect(consumer.requeued).To(BeEmpty())
			Expect(testutil.ToFloat64(metrics.WorkerMessagesTotal.WithLabelValues("dead_lettered"))).To(Equal(before + 1))
		})

		It("turns a panic into a failure", func() {
			recorder.panicMsg = "boom"

			err := w.HandleMessage(ctx, messageCreated("5-0", "m5", 1))

			Expect(err).To(MatchError(ContainSubstring("panic: boom")))
			Expect(consumer.requeued).To(Equal([]string{"5-0"}))
		})
	})

	Describe("Run", func() {
		It("drains batches until stopped", func() {
			consumer.batches = [][]queue.Message{
				{messageCreated("6-0", "m6", 1), messageCreated("6-1", "m7", 1)},
				{{ID: "6-2", Type: model.ActivityNeedCreated, NeedID: "n1", Attempt: 1}},
			}

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			Eventually(consumer.ackedIDs).Should(Equal([]string{"6-0", "6-1", "6-2"}))
			w.Stop()
			Expect(<-done).To(Succeed())
			Expect(recorder.ids()).To(Equal([]string{"m6", "m7"}))
		})

		It("returns when the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() { done <- w.Run(runCtx) }()

			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})
})

var _ = Describe("Reclaimer", func() {
	var (
		ctx      context.Context
		consumer *fakeConsumer
		recorder *fakeRecorder
		w        *worker.Worker
		clock    *clockwork.FakeClock
		r        *worker.Reclaimer
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &fakeConsumer{}
		recorder = &fakeRecorder{}
		clock = clockwork.NewFakeClock()
		w = worker.New(consumer, worker.NewActivityProcessor(recorder), worker.Config{MaxAttempts: 3})
		r = worker.NewReclaimer(worker.ReclaimerConfig{
			MinIdle:   time.Minute,
			Interval:  30 * time.Second,
			BatchSize: 10,
		}, consumer, w.HandleMessage, clock)
	})

	It("processes claimed messages through the worker", func() {
		consumer.stale = []queue.Message{messageCreated("7-0", "m8", 2)}

		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(recorder.ids()).To(Equal([]string{"m8"}))
		Expect(consumer.ackedIDs()).To(Equal([]string{"7-0"}))
	})

	It("does nothing when no message is stale", func() {
		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		Expect(consumer.ackedIDs()).To(BeEmpty())
	})

	It("keeps going when a reclaimed message fails", func() {
		recorder.err = errors.New("still failing")
		consumer.stale = []queue.Message{messageCreated("8-0", "m9", 3), messageCreated("8-1", "m10", 1)}

		n, err := r.ReclaimOnce(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		Expect(consumer.dlq).To(Equal([]string{"8-0"}))
		Expect(consumer.requeued).To(Equal([]string{"8-1"}))
	})

	It("reclaims on every tick", func() {
		consumer.stale = []queue.Message{messageCreated("9-0", "m11", 2)}

		go r.Run(ctx)
		Expect(clock.BlockUntilContext(ctx, 1)).To(Succeed())
		clock.Advance(30 * time.Second)

		Eventually(consumer.ackedIDs).Should(Equal([]string{"9-0"}))
		r.Stop()
	})
})
