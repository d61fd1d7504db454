package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type messageDoc struct {
	Key           string    `json:"_key"`
	Rev           string    `json:"_rev,omitempty"`
	NeedID        string    `json:"needId"`
	AuthorID      string    `json:"author"`
	ParentMessage string    `json:"parentMessage,omitempty"`
	Content       string    `json:"content"`
	Likes         []string  `json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
}

type messageStore struct {
	db arangodb.Client
}

func newMessageStore(db arangodb.Client) MessageStore {
	return &messageStore{db: db}
}

func (s *messageStore) Create(ctx context.Context, msg *model.SupporterMessage) error {
	meta, err := s.db.CreateDocument(ctx, collMessages, toMessageDoc(msg))
	if err != nil {
		return fmt.Errorf("create message: %w", mapErr(err))
	}
	msg.Rev = meta.Rev
	return nil
}

func (s *messageStore) GetByID(ctx context.Context, id string) (*model.SupporterMessage, error) {
	var doc messageDoc
	meta, err := s.db.ReadDocument(ctx, collMessages, id, &doc)
	if err != nil {
		return nil, mapErr(err)
	}
	doc.Rev = meta.Rev
	return toMessageModel(doc), nil
}

func (s *messageStore) ListByNeed(ctx context.Context, needID string) ([]model.SupporterMessage, error) {
	docs, err := arangodb.QueryAll[messageDoc](ctx, s.db, `
		FOR m IN supporter_messages
			FILTER m.needId == @needId
			SORT m.createdAt ASC
			RETURN m`,
		map[string]any{"needId": needID})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", mapErr(err))
	}

	msgs := make([]model.SupporterMessage, 0, len(docs))
	for _, d := range docs {
		msgs = append(msgs, *toMessageModel(d))
	}
	return msgs, nil
}

func (s *messageStore) Replace(ctx context.Context, msg *model.SupporterMessage) error {
	doc := toMessageDoc(msg)
	doc.Rev = ""

	meta, err := s.db.ReplaceDocument(ctx, collMessages, msg.ID, doc, msg.Rev)
	if err != nil {
		return mapErr(err)
	}
	msg.Rev = meta.Rev
	return nil
}

func toMessageDoc(m *model.SupporterMessage) messageDoc {
	likes := m.Likes
	if likes == nil {
		likes = []string{}
	}
	return messageDoc{
		Key:           m.ID,
		NeedID:        m.NeedID,
		AuthorID:      m.AuthorID,
		ParentMessage: m.ParentID,
		Content:       m.Content,
		Likes:         likes,
		CreatedAt:     m.CreatedAt,
	}
}

func toMessageModel(d messageDoc) *model.SupporterMessage {
	return &model.SupporterMessage{
		ID:        d.Key,
		NeedID:    d.NeedID,
		AuthorID:  d.AuthorID,
		ParentID:  d.ParentMessage,
		Content:   d.Content,
		Likes:     d.Likes,
		CreatedAt: d.CreatedAt,
		Rev:       d.Rev,
	}
}
