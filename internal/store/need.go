package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type needDoc struct {
	Key         string           `json:"_key"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Status      model.NeedStatus `json:"status"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type needStore struct {
	db arangodb.Client
}

func newNeedStore(db arangodb.Client) NeedStore {
	return &needStore{db: db}
}

func (s *needStore) Create(ctx context.Context, need *model.Need) error {
	if _, err := s.db.CreateDocument(ctx, collNeeds, toNeedDoc(need)); err != nil {
		return fmt.Errorf("create need: %w", mapErr(err))
	}
	return nil
}

func (s *needStore) GetByID(ctx context.Context, id string) (*model.Need, error) {
	var doc needDoc
	if _, err := s.db.ReadDocument(ctx, collNeeds, id, &doc); err != nil {
		return nil, mapErr(err)
	}
	return toNeedModel(doc), nil
}

func (s *needStore) ListOpen(ctx context.Context, limit, offset int) ([]model.Need, error) {
	docs, err := arangodb.QueryAll[needDoc](ctx, s.db, `
		FOR n IN needs
			FILTER n.status == @status
			SORT n.createdAt DESC
			LIMIT @offset, @limit
			RETURN n`,
		map[string]any{"status": model.NeedStatusOpen, "offset": offset, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list needs: %w", mapErr(err))
	}

	needs := make([]model.Need, 0, len(docs))
	for _, d := range docs {
		needs = append(needs, *toNeedModel(d))
	}
	return needs, nil
}

func (s *needStore) UpdateStatus(ctx context.Context, id string, status model.NeedStatus) (*model.Need, error) {
	if _, err := s.db.UpdateDocument(ctx, collNeeds, id, map[string]any{"status": status}); err != nil {
		return nil, mapErr(err)
	}
	return s.GetByID(ctx, id)
}

func toNeedDoc(n *model.Need) needDoc {
	return needDoc{
		Key:         n.ID,
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		Status:      n.Status,
		CreatedBy:   n.CreatedBy,
		CreatedAt:   n.CreatedAt,
	}
}

func toNeedModel(d needDoc) *model.Need {
	return &model.Need{
		ID:          d.Key,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Status:      d.Status,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
	}
}
