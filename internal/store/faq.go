package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type faqDoc struct {
	Key       string    `json:"_key"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type faqStore struct {
	db arangodb.Client
}

func newFaqStore(db arangodb.Client) FaqStore {
	return &faqStore{db: db}
}

func (s *faqStore) Create(ctx context.Context, faq *model.Faq) error {
	if _, err := s.db.CreateDocument(ctx, collFaqs, toFaqDoc(faq)); err != nil {
		return fmt.Errorf("create faq: %w", mapErr(err))
	}
	return nil
}

func (s *faqStore) GetByID(ctx context.Context, id string) (*model.Faq, error) {
	var doc faqDoc
	if _, err := s.db.ReadDocument(ctx, collFaqs, id, &doc); err != nil {
		return nil, mapErr(err)
	}
	return toFaqModel(doc), nil
}

func (s *faqStore) List(ctx context.Context, activeOnly bool) ([]model.Faq, error) {
	docs, err := arangodb.QueryAll[faqDoc](ctx, s.db, `
		FOR f IN faqs
			FILTER !@activeOnly || f.isActive == true
			SORT f.order ASC, f.createdAt ASC
			RETURN f`,
		map[string]any{"activeOnly": activeOnly})
	if err != nil {
		return nil, fmt.Errorf("list faqs: %w", mapErr(err))
	}

	faqs := make([]model.Faq, 0, len(docs))
	for _, d := range docs {
		faqs = append(faqs, *toFaqModel(d))
	}
	return faqs, nil
}

func (s *faqStore) Update(ctx context.Context, faq *model.Faq) error {
	doc := toFaqDoc(faq)
	if _, err := s.db.ReplaceDocument(ctx, collFaqs, faq.ID, doc, ""); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *faqStore) Delete(ctx context.Context, id string) error {
	return mapErr(s.db.RemoveDocument(ctx, collFaqs, id))
}

func toFaqDoc(f *model.Faq) faqDoc {
	return faqDoc{
		Key:       f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		Order:     f.Order,
		IsActive:  f.IsActive,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func toFaqModel(d faqDoc) *model.Faq {
	return &model.Faq{
		ID:        d.Key,
		Question:  d.Question,
		Answer:    d.Answer,
		Order:     d.Order,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
