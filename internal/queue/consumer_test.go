package queue_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	It("parses a message.created event", func() {
		msg := redis.XMessage{
			ID: "1700000000000-0",
			Values: map[string]any{
				"event_id":    "1790000000000000000",
				"event_type":  "message.created",
				"actor_id":    "507f1f77bcf86cd799439011",
				"need_id":     "507f1f77bcf86cd799439012",
				"message_id":  "507f1f77bcf86cd799439013",
				"trace_id":    "abc123",
				"occurred_at": "2025-06-01T12:00:00Z",
				"attempt":     "2",
			},
		}

		parsed, err := queue.ParseMessage(msg)

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.ID).To(Equal("1700000000000-0"))
		Expect(parsed.EventID).To(Equal(int64(1790000000000000000)))
		Expect(parsed.Type).To(Equal(model.ActivityMessageCreated))
		Expect(parsed.MessageID).To(Equal("507f1f77bcf86cd799439013"))
		Expect(parsed.TraceID).To(Equal("abc123"))
		Expect(parsed.Attempt).To(Equal(2))
		Expect(parsed.OccurredAt).To(Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))
	})

	It("defaults the attempt to 1", func() {
		parsed, err := queue.ParseMessage(redis.XMessage{Values: map[string]any{
			"event_id":   "1",
			"event_type": "need.created",
			"need_id":    "n1",
		}})

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Attempt).To(Equal(1))
	})

	DescribeTable("rejects malformed messages",
		func(values map[string]any) {
			_, err := queue.ParseMessage(redis.XMessage{Values: values})
			Expect(err).To(HaveOccurred())
		},
		Entry("missing event id", map[string]any{"event_type": "need.created", "need_id": "n1"}),
		Entry("non-numeric event id", map[string]any{"event_id": "x", "event_type": "need.created", "need_id": "n1"}),
		Entry("unknown type", map[string]any{"event_id": "1", "event_type": "need.deleted", "need_id": "n1"}),
		Entry("message event without message id", map[string]any{"event_id": "1", "event_type": "message.liked"}),
		Entry("poll event without poll id", map[string]any{"event_id": "1", "event_type": "poll.voted"}),
		Entry("bad timestamp", map[string]any{"event_id": "1", "event_type": "need.created", "need_id": "n1", "occurred_at": "yesterday"}),
	)
})
