package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
	"needsnet.app/api/internal/store"
)

var _ = Describe("PollService", func() {
	var (
		ctx       context.Context
		clock     *clockwork.FakeClock
		polls     *memPollStore
		needs     *mockNeedStore
		publisher *recordingPublisher
		svc       service.PollService
		now       time.Time
	)

	newPoll := func(expiresAt *time.Time) model.Poll {
		return model.Poll{
			ID:       "poll-1",
			NeedID:   "need-1",
			Question: "Which day works best?",
			Options: []model.PollOption{
				{ID: "opt-a", Text: "Saturday", Voters: []string{}},
				{ID: "opt-b", Text: "Sunday", Voters: []string{}},
			},
			ExpiresAt: expiresAt,
			CreatedBy: "organiser",
			CreatedAt: now.Add(-time.Hour),
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		clock = clockwork.NewFakeClockAt(now)
		needs = &mockNeedStore{}
		publisher = &recordingPublisher{}
		future := now.Add(24 * time.Hour)
		polls = newMemPollStore(newPoll(&future))
	})

	JustBeforeEach(func() {
		svc = service.NewPollService(polls, needs, publisher, clock)
	})

	Describe("Vote", func() {
		It("records the vote against the chosen option", func() {
			poll, err := svc.Vote(ctx, "poll-1", "opt-b", "alice")

			Expect(err).NotTo(HaveOccurred())
			Expect(poll.TotalVotes()).To(Equal(1))
			Expect(poll.VotedOptionID("alice")).To(Equal("opt-b"))
			Expect(polls.snapshot("poll-1").Option("opt-b").Voters).To(ConsistOf("alice"))
			Expect(publisher.types()).To(ConsistOf(model.ActivityPollVoted))
		})

		It("rejects a second vote from the same voter and keeps the first", func() {
			_, err := svc.Vote(ctx, "poll-1", "opt-a", "alice")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Vote(ctx, "poll-1", "opt-b", "alice")

			Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue())
			stored := polls.snapshot("poll-1")
			Expect(stored.TotalVotes()).To(Equal(1))
			Expect(stored.VotedOptionID("alice")).To(Equal("opt-a"))
		})

		It("refuses votes once the poll has expired", func() {
			clock.Advance(25 * time.Hour)

			_, err := svc.Vote(ctx, "poll-1", "opt-a", "alice")

			Expect(apperr.IsKind(err, apperr.KindFailedPrecondition)).To(BeTrue())
			Expect(polls.snapshot("poll-1").TotalVotes()).To(BeZero())
		})

		It("treats the exact expiry instant as expired", func() {
			clock.Advance(24 * time.Hour)

			_, err := svc.Vote(ctx, "poll-1", "opt-a", "alice")

			Expect(apperr.IsKind(err, apperr.KindFailedPrecondition)).To(BeTrue())
		})

		It("returns not found for an unknown option", func() {
			_, err := svc.Vote(ctx, "poll-1", "opt-z", "alice")

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("option not found"))
			Expect(publisher.types()).To(BeEmpty())
		})

		It("returns not found for an unknown poll", func() {
			_, err := svc.Vote(ctx, "missing", "opt-a", "alice")

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("poll not found"))
		})

		It("retries when another vote lands between read and write", func() {
			injected := false
			polls.beforeReplace = func(*model.Poll) {
				if injected {
					return
				}
				injected = true
				polls.mu.Lock()
				p := polls.polls["poll-1"]
				p.Options[0].Voters = append(p.Options[0].Voters, "bob")
				p.Rev = polls.nextRev()
				polls.polls["poll-1"] = p
				polls.mu.Unlock()
			}

			poll, err := svc.Vote(ctx, "poll-1", "opt-b", "alice")

			Expect(err).NotTo(HaveOccurred())
			Expect(polls.replaceCalls).To(Equal(2))
			Expect(poll.TotalVotes()).To(Equal(2))
			stored := polls.snapshot("poll-1")
			Expect(stored.VotedOptionID("bob")).To(Equal("opt-a"))
			Expect(stored.VotedOptionID("alice")).To(Equal("opt-b"))
		})

		It("re-checks the duplicate rule after a revision conflict", func() {
			injected := false
			polls.beforeReplace = func(*model.Poll) {
				if injected {
					return
				}
				injected = true
				polls.mu.Lock()
				p := polls.polls["poll-1"]
				p.Options[0].Voters = append(p.Options[0].Voters, "alice")
				p.Rev = polls.nextRev()
				polls.polls["poll-1"] = p
				polls.mu.Unlock()
			}

			_, err := svc.Vote(ctx, "poll-1", "opt-b", "alice")

			Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue())
			Expect(polls.snapshot("poll-1").TotalVotes()).To(Equal(1))
		})

		It("accepts exactly one of many concurrent votes by the same voter", func() {
			const voters = 10
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				accepted int
				errs     []error
			)
			for i := 0; i < voters; i++ {
				wg.Add(1)
				go func(option string) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := svc.Vote(ctx, "poll-1", option, "alice")
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						accepted++
						return
					}
					errs = append(errs, err)
				}([]string{"opt-a", "opt-b"}[i%2])
			}
			wg.Wait()

			Expect(accepted).To(Equal(1))
			for _, err := range errs {
				Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue(), err.Error())
			}
			Expect(polls.snapshot("poll-1").TotalVotes()).To(Equal(1))
		})

		Context("when the poll keeps changing", func() {
			var stub *mockPollStore

			BeforeEach(func() {
				stub = &mockPollStore{}
				calls := 0
				stub.getByIDFn = func(context.Context, string) (*model.Poll, error) {
					p := clonePoll(newPoll(nil))
					return &p, nil
				}
				stub.replaceFn = func(context.Context, *model.Poll) error {
					calls++
					return store.ErrRevisionMismatch
				}
				DeferCleanup(func() {
					Expect(calls).To(Equal(service.MaxWriteAttempts))
				})
			})

			JustBeforeEach(func() {
				svc = service.NewPollService(stub, needs, publisher, clock)
			})

			It("gives up with a conflict after the attempt limit", func() {
				_, err := svc.Vote(ctx, "poll-1", "opt-a", "alice")

				Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue())
				Expect(publisher.types()).To(BeEmpty())
			})
		})

		It("wraps unexpected store errors", func() {
			boom := errors.New("connection reset")
			stub := &mockPollStore{getByIDFn: func(context.Context, string) (*model.Poll, error) {
				return nil, boom
			}}
			svc = service.NewPollService(stub, needs, publisher, clock)

			_, err := svc.Vote(ctx, "poll-1", "opt-a", "alice")

			Expect(err).To(MatchError(boom))
			Expect(apperr.As(err).Kind).To(Equal(apperr.KindInternal))
		})
	})

	Describe("Create", func() {
		It("creates a poll with trimmed options and publishes poll.created", func() {
			expires := now.Add(time.Hour)
			poll, err := svc.Create(ctx, service.CreatePollInput{
				NeedID:    "need-1",
				Question:  "  Best time?  ",
				Options:   []string{" Morning ", "Evening"},
				ExpiresAt: &expires,
				CreatedBy: "organiser",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(poll.Question).To(Equal("Best time?"))
			Expect(poll.Options).To(HaveLen(2))
			Expect(poll.Options[0].Text).To(Equal("Morning"))
			Expect(poll.Options[0].ID).NotTo(Equal(poll.Options[1].ID))
			Expect(poll.TotalVotes()).To(BeZero())
			Expect(publisher.types()).To(ConsistOf(model.ActivityPollCreated))
		})

		It("rejects an expiry in the past", func() {
			past := now.Add(-time.Minute)
			_, err := svc.Create(ctx, service.CreatePollInput{
				NeedID: "need-1", Question: "q", Options: []string{"a", "b"}, ExpiresAt: &past,
			})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		})

		It("rejects options that differ only by case", func() {
			_, err := svc.Create(ctx, service.CreatePollInput{
				NeedID: "need-1", Question: "q", Options: []string{"Yes", "yes "},
			})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		})

		It("rejects a whitespace-only question", func() {
			_, err := svc.Create(ctx, service.CreatePollInput{
				NeedID: "need-1", Question: "   ", Options: []string{"a", "b"},
			})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("question must not be blank"))
		})

		It("rejects a whitespace-only option and stores nothing", func() {
			_, err := svc.Create(ctx, service.CreatePollInput{
				NeedID: "need-1", Question: "Pick one", Options: []string{"   ", "B"},
			})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("option must not be blank"))
			Expect(publisher.types()).To(BeEmpty())

			polls, err := svc.ListByNeed(ctx, "need-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(polls).To(HaveLen(1))
		})

		It("returns not found when the need does not exist", func() {
			needs.getByIDFn = func(context.Context, string) (*model.Need, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Create(ctx, service.CreatePollInput{
				NeedID: "need-x", Question: "q", Options: []string{"a", "b"},
			})

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
			Expect(apperr.As(err).Message).To(Equal("need not found"))
		})
	})

	Describe("ListByNeed", func() {
		It("lists the need's polls", func() {
			polls, err := svc.ListByNeed(ctx, "need-1")

			Expect(err).NotTo(HaveOccurred())
			Expect(polls).To(HaveLen(1))
		})
	})
})
