package service_test

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/service"
)

var _ = Describe("FaqService", func() {
	var (
		ctx   context.Context
		clock *clockwork.FakeClock
		faqs  *memFaqStore
		svc   service.FaqService
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		faqs = &memFaqStore{}
		svc = service.NewFaqService(faqs, clock)
	})

	It("creates active faqs by default", func() {
		faq, err := svc.Create(ctx, service.CreateFaqInput{Question: " How do I help? ", Answer: "Pick a need and comment."})

		Expect(err).NotTo(HaveOccurred())
		Expect(faq.IsActive).To(BeTrue())
		Expect(faq.Question).To(Equal("How do I help?"))
		Expect(faq.CreatedAt).To(Equal(clock.Now().UTC()))
	})

	It("hides deactivated faqs from the public list only", func() {
		faq, err := svc.Create(ctx, service.CreateFaqInput{Question: "First question", Answer: "First answer text"})
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.Create(ctx, service.CreateFaqInput{Question: "Second question", Answer: "Second answer text"})
		Expect(err).NotTo(HaveOccurred())

		clock.Advance(time.Hour)
		inactive := false
		updated, err := svc.Update(ctx, faq.ID, service.UpdateFaqInput{IsActive: &inactive})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Question).To(Equal("First question"))
		Expect(updated.UpdatedAt).To(BeTemporally(">", updated.CreatedAt))

		active, err := svc.ListActive(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(HaveLen(1))
		Expect(active[0].Question).To(Equal("Second question"))

		all, err := svc.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("returns not found when updating or deleting an unknown faq", func() {
		answer := "An answer that is long enough"
		_, err := svc.Update(ctx, "ghost", service.UpdateFaqInput{Answer: &answer})
		Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())

		err = svc.Delete(ctx, "ghost")
		Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
	})

	It("rejects blank or whitespace-only text on create", func() {
		_, err := svc.Create(ctx, service.CreateFaqInput{Question: "   ", Answer: "A perfectly fine answer"})
		Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("question must not be blank"))

		_, err = svc.Create(ctx, service.CreateFaqInput{Question: "A fine question", Answer: "\t\n  "})
		Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("answer must not be blank"))

		_, err = svc.Create(ctx, service.CreateFaqInput{Question: "  Why?    ", Answer: "A perfectly fine answer"})
		Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())

		all, _ := svc.ListAll(ctx)
		Expect(all).To(BeEmpty())
	})

	It("rejects blank text on update and keeps the stored faq", func() {
		faq, err := svc.Create(ctx, service.CreateFaqInput{Question: "Original question", Answer: "Original answer text"})
		Expect(err).NotTo(HaveOccurred())

		blank := "     "
		_, err = svc.Update(ctx, faq.ID, service.UpdateFaqInput{Question: &blank})
		Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		_, err = svc.Update(ctx, faq.ID, service.UpdateFaqInput{Answer: &blank})
		Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())

		all, _ := svc.ListAll(ctx)
		Expect(all).To(HaveLen(1))
		Expect(all[0].Question).To(Equal("Original question"))
		Expect(all[0].Answer).To(Equal("Original answer text"))
	})

	It("deletes a faq", func() {
		faq, _ := svc.Create(ctx, service.CreateFaqInput{Question: "Short lived?", Answer: "Yes, about to go."})

		Expect(svc.Delete(ctx, faq.ID)).To(Succeed())

		all, _ := svc.ListAll(ctx)
		Expect(all).To(BeEmpty())
	})
})
