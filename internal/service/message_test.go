package service_test

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
	"needsnet.app/api/internal/store"
)

var _ = Describe("MessageService", func() {
	var (
		ctx       context.Context
		clock     *clockwork.FakeClock
		messages  *memMessageStore
		needs     *mockNeedStore
		users     *mockUserStore
		publisher *recordingPublisher
		svc       service.MessageService
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
		needs = &mockNeedStore{}
		users = &mockUserStore{}
		publisher = &recordingPublisher{}
		messages = newMemMessageStore(
			model.SupporterMessage{ID: "m1", NeedID: "need-1", AuthorID: "alice", Content: "first"},
			model.SupporterMessage{ID: "m2", NeedID: "need-1", AuthorID: "bob", Content: "second"},
			model.SupporterMessage{ID: "r1", NeedID: "need-1", AuthorID: "bob", ParentID: "m1", Content: "reply one"},
			model.SupporterMessage{ID: "r2", NeedID: "need-1", AuthorID: "carol", ParentID: "m1", Content: "reply two"},
			model.SupporterMessage{ID: "other", NeedID: "need-2", AuthorID: "dave", Content: "elsewhere"},
		)
	})

	JustBeforeEach(func() {
		svc = service.NewMessageService(messages, needs, users, publisher, clock)
	})

	Describe("ToggleLike", func() {
		It("likes then unlikes, restoring the original count", func() {
			first, err := svc.ToggleLike(ctx, "m1", "zoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(service.LikeResult{Liked: true, LikesCount: 1}))

			second, err := svc.ToggleLike(ctx, "m1", "zoe")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(service.LikeResult{Liked: false, LikesCount: 0}))

			Expect(publisher.types()).To(Equal([]model.ActivityType{
				model.ActivityMessageLiked,
				model.ActivityMessageUnliked,
			}))
		})

		It("counts distinct actors", func() {
			_, _ = svc.ToggleLike(ctx, "m1", "zoe")
			res, err := svc.ToggleLike(ctx, "m1", "yann")

			Expect(err).NotTo(HaveOccurred())
			Expect(res.LikesCount).To(Equal(2))
		})

		It("retries on a revision conflict", func() {
			failures := 1
			messages.replaceErr = func() error {
				if failures > 0 {
					failures--
					return store.ErrRevisionMismatch
				}
				return nil
			}

			res, err := svc.ToggleLike(ctx, "m2", "zoe")

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Liked).To(BeTrue())
		})

		It("gives up after repeated conflicts", func() {
			messages.replaceErr = func() error { return store.ErrRevisionMismatch }

			_, err := svc.ToggleLike(ctx, "m2", "zoe")

			Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue())
		})

		It("returns not found for an unknown message", func() {
			_, err := svc.ToggleLike(ctx, "nope", "zoe")

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
		})
	})

	Describe("Create", func() {
		author := model.User{ID: "erin", Name: "Erin"}

		It("creates a top-level message and syncs the author", func() {
			var synced model.User
			users.upsertFn = func(_ context.Context, u model.User) error {
				synced = u
				return nil
			}

			msg, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", Content: "  hello  ", Author: author})

			Expect(err).NotTo(HaveOccurred())
			Expect(msg.Content).To(Equal("hello"))
			Expect(msg.AuthorID).To(Equal("erin"))
			Expect(msg.IsReply()).To(BeFalse())
			Expect(synced.Name).To(Equal("Erin"))
			Expect(publisher.types()).To(ConsistOf(model.ActivityMessageCreated))
		})

		It("accepts a reply to a top-level message of the same need", func() {
			msg, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", ParentID: "m2", Content: "agreed", Author: author})

			Expect(err).NotTo(HaveOccurred())
			Expect(msg.ParentID).To(Equal("m2"))
		})

		It("rejects a reply to a reply", func() {
			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", ParentID: "r1", Content: "nested", Author: author})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		})

		It("rejects a reply to a message of another need", func() {
			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", ParentID: "other", Content: "x", Author: author})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		})

		It("returns not found for a missing parent", func() {
			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", ParentID: "ghost", Content: "x", Author: author})

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("parent message not found"))
		})

		It("still creates the message when the profile sync fails", func() {
			users.upsertFn = func(context.Context, model.User) error { return context.DeadlineExceeded }

			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", Content: "hi", Author: author})

			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects whitespace-only content before touching the need", func() {
			needs.getByIDFn = func(context.Context, string) (*model.Need, error) {
				Fail("need lookup must not run for blank content")
				return nil, nil
			}

			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-1", Content: " \t\n ", Author: author})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("content must not be blank"))
			Expect(publisher.types()).To(BeEmpty())
			Expect(messages.messages).To(HaveLen(5))
		})

		It("publishes nothing when the need is missing", func() {
			needs.getByIDFn = func(context.Context, string) (*model.Need, error) { return nil, store.ErrNotFound }

			_, err := svc.Create(ctx, service.CreateMessageInput{NeedID: "need-x", Content: "hi", Author: author})

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
			Expect(publisher.types()).To(BeEmpty())
		})
	})

	Describe("ListByNeed", func() {
		It("returns threads newest first with replies oldest first", func() {
			users.getByIDsFn = func(_ context.Context, ids []string) (map[string]model.User, error) {
				Expect(ids).To(ConsistOf("alice", "bob", "carol"))
				return map[string]model.User{
					"alice": {ID: "alice", Name: "Alice"},
					"bob":   {ID: "bob", Name: "Bob"},
				}, nil
			}

			threads, err := svc.ListByNeed(ctx, "need-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(threads).To(HaveLen(2))
			Expect(threads[0].Message.ID).To(Equal("m2"))
			Expect(threads[0].Replies).To(BeEmpty())
			Expect(threads[1].Message.ID).To(Equal("m1"))
			Expect(threads[1].Author.Name).To(Equal("Alice"))
			Expect(threads[1].Replies).To(HaveLen(2))
			Expect(threads[1].Replies[0].Message.ID).To(Equal("r1"))
			Expect(threads[1].Replies[0].Author.Name).To(Equal("Bob"))
			Expect(threads[1].Replies[1].Author).To(BeNil())
		})
	})
})
