package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type wordCloudDoc struct {
	Key             string         `json:"_key"`
	Rev             string         `json:"_rev,omitempty"`
	Terms           map[string]int `json:"terms"`
	MessageIDs      []string       `json:"messageIds"`
	MessagesCounted int            `json:"messagesCounted"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type wordCloudStore struct {
	db arangodb.Client
}

func newWordCloudStore(db arangodb.Client) WordCloudStore {
	return &wordCloudStore{db: db}
}

func (s *wordCloudStore) Get(ctx context.Context, needID string) (*model.WordCloud, error) {
	var doc wordCloudDoc
	meta, err := s.db.ReadDocument(ctx, collWordClouds, needID, &doc)
	if err != nil {
		return nil, mapErr(err)
	}

	terms := doc.Terms
	if terms == nil {
		terms = map[string]int{}
	}
	return &model.WordCloud{
		NeedID:          doc.Key,
		Terms:           terms,
		MessageIDs:      doc.MessageIDs,
		MessagesCounted: doc.MessagesCounted,
		UpdatedAt:       doc.UpdatedAt,
		Rev:             meta.Rev,
	}, nil
}

func (s *wordCloudStore) Save(ctx context.Context, cloud *model.WordCloud) error {
	doc := wordCloudDoc{
		Key:             cloud.NeedID,
		Terms:           cloud.Terms,
		MessageIDs:      cloud.MessageIDs,
		MessagesCounted: cloud.MessagesCounted,
		UpdatedAt:       cloud.UpdatedAt,
	}

	var (
		meta arangodb.Meta
		err  error
	)
	if cloud.Rev == "" {
		meta, err = s.db.CreateDocument(ctx, collWordClouds, doc)
		// Another worker created it first; treat like a lost revision race.
		if errors.Is(mapErr(err), ErrDuplicate) {
			return fmt.Errorf("%w: word cloud %s created concurrently", ErrRevisionMismatch, cloud.NeedID)
		}
	} else {
		meta, err = s.db.ReplaceDocument(ctx, collWordClouds, cloud.NeedID, doc, cloud.Rev)
	}
	if err != nil {
		return mapErr(err)
	}

	cloud.Rev = meta.Rev
	return nil
}
