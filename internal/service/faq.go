package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/id"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

type CreateFaqInput struct {
	Question string
	Answer   string
	Order    *int
	IsActive *bool
}

// UpdateFaqInput holds a partial update; nil fields are left unchanged.
type UpdateFaqInput struct {
	Question *string
	Answer   *string
	Order    *int
	IsActive *bool
}

type FaqService interface {
	ListActive(ctx context.Context) ([]model.Faq, error)
	ListAll(ctx context.Context) ([]model.Faq, error)
	Create(ctx context.Context, in CreateFaqInput) (*model.Faq, error)
	Update(ctx context.Context, id string, in UpdateFaqInput) (*model.Faq, error)
	Delete(ctx context.Context, id string) error
}

type faqService struct {
	faqs  store.FaqStore
	clock clockwork.Clock
}

func NewFaqService(faqs store.FaqStore, clock clockwork.Clock) FaqService {
	return &faqService{faqs: faqs, clock: clock}
}

func (s *faqService) ListActive(ctx context.Context) ([]model.Faq, error) {
	faqs, err := s.faqs.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing active faqs: %w", err)
	}
	return faqs, nil
}

func (s *faqService) ListAll(ctx context.Context) ([]model.Faq, error) {
	faqs, err := s.faqs.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing faqs: %w", err)
	}
	return faqs, nil
}

func (s *faqService) Create(ctx context.Context, in CreateFaqInput) (*model.Faq, error) {
	question, err := cleanText("question", in.Question, faqQuestionMin, faqQuestionMax)
	if err != nil {
		return nil, err
	}
	answer, err := cleanText("answer", in.Answer, faqAnswerMin, faqAnswerMax)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	faq := &model.Faq{
		ID:        id.New(),
		Question:  question,
		Answer:    answer,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Order != nil {
		faq.Order = *in.Order
	}
	if in.IsActive != nil {
		faq.IsActive = *in.IsActive
	}

	if err := s.faqs.Create(ctx, faq); err != nil {
		return nil, fmt.Errorf("creating faq: %w", err)
	}

	slog.InfoContext(ctx, "faq created", "faq_id", faq.ID)
	return faq, nil
}

func (s *faqService) Update(ctx context.Context, faqID string, in UpdateFaqInput) (*model.Faq, error) {
	var question, answer string
	var err error
	if in.Question != nil {
		if question, err = cleanText("question", *in.Question, faqQuestionMin, faqQuestionMax); err != nil {
			return nil, err
		}
	}
	if in.Answer != nil {
		if answer, err = cleanText("answer", *in.Answer, faqAnswerMin, faqAnswerMax); err != nil {
			return nil, err
		}
	}

	faq, err := s.faqs.GetByID(ctx, faqID)
	if err != nil {
		return nil, faqLookupError(err)
	}

	if in.Question != nil {
		faq.Question = question
	}
	if in.Answer != nil {
		faq.Answer = answer
	}
	if in.Order != nil {
		faq.Order = *in.Order
	}
	if in.IsActive != nil {
		faq.IsActive = *in.IsActive
	}
	faq.UpdatedAt = s.clock.Now().UTC()

	if err := s.faqs.Update(ctx, faq); err != nil {
		return nil, faqLookupError(err)
	}
	return faq, nil
}

func (s *faqService) Delete(ctx context.Context, faqID string) error {
	if err := s.faqs.Delete(ctx, faqID); err != nil {
		return faqLookupError(err)
	}
	slog.InfoContext(ctx, "faq deleted", "faq_id", faqID)
	return nil
}

func faqLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("faq not found")
	}
	return fmt.Errorf("faq: %w", err)
}
