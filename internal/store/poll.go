package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type pollDoc struct {
	Key       string          `json:"_key"`
	Rev       string          `json:"_rev,omitempty"`
	NeedID    string          `json:"needId"`
	Question  string          `json:"question"`
	Options   []pollOptionDoc `json:"options"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

type pollOptionDoc struct {
	ID     string   `json:"id"`
	Text   string   `json:"text"`
	Voters []string `json:"voters"`
}

type pollStore struct {
	db arangodb.Client
}

func newPollStore(db arangodb.Client) PollStore {
	return &pollStore{db: db}
}

func (s *pollStore) Create(ctx context.Context, poll *model.Poll) error {
	meta, err := s.db.CreateDocument(ctx, collPolls, toPollDoc(poll))
	if err != nil {
		return fmt.Errorf("create poll: %w", mapErr(err))
	}
	poll.Rev = meta.Rev
	return nil
}

func (s *pollStore) GetByID(ctx context.Context, id string) (*model.Poll, error) {
	var doc pollDoc
	meta, err := s.db.ReadDocument(ctx, collPolls, id, &doc)
	if err != nil {
		return nil, mapErr(err)
	}
	doc.Rev = meta.Rev
	return toPollModel(doc), nil
}

func (s *pollStore) ListByNeed(ctx context.Context, needID string) ([]model.Poll, error) {
	docs, err := arangodb.QueryAll[pollDoc](ctx, s.db, `
		FOR p IN polls
			FILTER p.needId == @needId
			SORT p.createdAt DESC
			RETURN p`,
		map[string]any{"needId": needID})
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", mapErr(err))
	}

	polls := make([]model.Poll, 0, len(docs))
	for _, d := range docs {
		polls = append(polls, *toPollModel(d))
	}
	return polls, nil
}

func (s *pollStore) Replace(ctx context.Context, poll *model.Poll) error {
	doc := toPollDoc(poll)
	doc.Rev = ""

	meta, err := s.db.ReplaceDocument(ctx, collPolls, poll.ID, doc, poll.Rev)
	if err != nil {
		return mapErr(err)
	}
	poll.Rev = meta.Rev
	return nil
}

func toPollDoc(p *model.Poll) pollDoc {
	options := make([]pollOptionDoc, 0, len(p.Options))
	for _, o := range p.Options {
		voters := o.Voters
		if voters == nil {
			voters = []string{}
		}
		options = append(options, pollOptionDoc{ID: o.ID, Text: o.Text, Voters: voters})
	}

	return pollDoc{
		Key:       p.ID,
		NeedID:    p.NeedID,
		Question:  p.Question,
		Options:   options,
		ExpiresAt: p.ExpiresAt,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	}
}

func toPollModel(d pollDoc) *model.Poll {
	options := make([]model.PollOption, 0, len(d.Options))
	for _, o := range d.Options {
		options = append(options, model.PollOption{ID: o.ID, Text: o.Text, Voters: o.Voters})
	}

	return &model.Poll{
		ID:        d.Key,
		NeedID:    d.NeedID,
		Question:  d.Question,
		Options:   options,
		ExpiresAt: d.ExpiresAt,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		Rev:       d.Rev,
	}
}
