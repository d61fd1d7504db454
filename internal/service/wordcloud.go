package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
	"needsnet.app/api/internal/wordcloud"
)

// ErrWordCloudContention is returned when a cloud kept changing under us.
// The worker requeues the message on it.
var ErrWordCloudContention = errors.New("word cloud modified concurrently")

type WordCloudService interface {
	// RecordMessage merges the message's terms into its need's word cloud.
	// Recording the same message twice has no further effect.
	RecordMessage(ctx context.Context, messageID string) error
}

type wordCloudService struct {
	messages   store.MessageStore
	wordClouds store.WordCloudStore
	clock      clockwork.Clock
}

func NewWordCloudService(messages store.MessageStore, wordClouds store.WordCloudStore, clock clockwork.Clock) WordCloudService {
	return &wordCloudService{
		messages:   messages,
		wordClouds: wordClouds,
		clock:      clock,
	}
}

func (s *wordCloudService) RecordMessage(ctx context.Context, messageID string) error {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "message vanished before word cloud update", "message_id", messageID)
			return nil
		}
		return fmt.Errorf("loading message: %w", err)
	}

	counts := wordcloud.Count(msg.Content)

	for attempt := 1; attempt <= MaxWriteAttempts; attempt++ {
		cloud, err := s.wordClouds.Get(ctx, msg.NeedID)
		if errors.Is(err, store.ErrNotFound) {
			cloud = &model.WordCloud{NeedID: msg.NeedID, Terms: map[string]int{}, MessageIDs: []string{}}
		} else if err != nil {
			return fmt.Errorf("loading word cloud: %w", err)
		}

		if cloud.Counted(msg.ID) {
			return nil
		}

		wordcloud.Merge(cloud.Terms, counts)
		cloud.MarkCounted(msg.ID)
		cloud.UpdatedAt = s.clock.Now().UTC()

		err = s.wordClouds.Save(ctx, cloud)
		if errors.Is(err, store.ErrRevisionMismatch) {
			metrics.RevisionConflictsTotal.WithLabelValues("word_clouds").Inc()
			continue
		}
		if err != nil {
			return fmt.Errorf("saving word cloud: %w", err)
		}

		slog.InfoContext(ctx, "word cloud updated",
			"need_id", msg.NeedID,
			"terms", len(counts),
			"messages_counted", cloud.MessagesCounted)
		return nil
	}

	return ErrWordCloudContention
}
