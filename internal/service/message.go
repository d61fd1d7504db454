package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/id"
	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

type CreateMessageInput struct {
	NeedID   string
	ParentID string
	Content  string
	Author   model.User
}

type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type MessageService interface {
	Create(ctx context.Context, in CreateMessageInput) (*model.SupporterMessage, error)
	// ListByNeed returns top-level messages newest first, each with its
	// replies oldest first and authors populated.
	ListByNeed(ctx context.Context, needID string) ([]model.MessageThread, error)
	ToggleLike(ctx context.Context, messageID, actorID string) (LikeResult, error)
}

type messageService struct {
	messages store.MessageStore
	needs    store.NeedStore
	users    store.UserStore
	clock    clockwork.Clock
	activity activityRecorder
}

func NewMessageService(messages store.MessageStore, needs store.NeedStore, users store.UserStore, publisher ActivityPublisher, clock clockwork.Clock) MessageService {
	return &messageService{
		messages: messages,
		needs:    needs,
		users:    users,
		clock:    clock,
		activity: activityRecorder{publisher: publisher, clock: clock},
	}
}

func (s *messageService) Create(ctx context.Context, in CreateMessageInput) (*model.SupporterMessage, error) {
	content, err := cleanText("content", in.Content, 1, messageContentMax)
	if err != nil {
		return nil, err
	}

	if _, err := s.needs.GetByID(ctx, in.NeedID); err != nil {
		return nil, needLookupError(err)
	}

	if in.ParentID != "" {
		parent, err := s.messages.GetByID(ctx, in.ParentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.NotFound("parent message not found")
			}
			return nil, fmt.Errorf("getting parent message: %w", err)
		}
		if parent.NeedID != in.NeedID || parent.IsReply() {
			return nil, apperr.Validation("replies can only target top-level messages")
		}
	}

	now := s.clock.Now().UTC()
	syncUser(ctx, s.users, in.Author, now)

	msg := &model.SupporterMessage{
		ID:        id.New(),
		NeedID:    in.NeedID,
		AuthorID:  in.Author.ID,
		ParentID:  in.ParentID,
		Content:   content,
		Likes:     []string{},
		CreatedAt: now,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	slog.InfoContext(ctx, "supporter message created", "message_id", msg.ID, "need_id", msg.NeedID, "reply", msg.IsReply())
	s.activity.record(ctx, model.ActivityEvent{
		Type:      model.ActivityMessageCreated,
		ActorID:   in.Author.ID,
		NeedID:    msg.NeedID,
		MessageID: msg.ID,
	})

	return msg, nil
}

func (s *messageService) ListByNeed(ctx context.Context, needID string) ([]model.MessageThread, error) {
	if _, err := s.needs.GetByID(ctx, needID); err != nil {
		return nil, needLookupError(err)
	}

	msgs, err := s.messages.ListByNeed(ctx, needID)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	authorIDs := make([]string, 0, len(msgs))
	seen := make(map[string]struct{}, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.AuthorID]; !ok {
			seen[m.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, m.AuthorID)
		}
	}

	authors, err := s.users.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("populating authors: %w", err)
	}

	return buildThreads(msgs, authors), nil
}

// buildThreads groups msgs (oldest first) into threads. Threads come out
// newest first; replies keep their oldest-first order.
func buildThreads(msgs []model.SupporterMessage, authors map[string]model.User) []model.MessageThread {
	author := func(id string) *model.User {
		if u, ok := authors[id]; ok {
			return &u
		}
		return nil
	}

	index := make(map[string]int)
	threads := make([]model.MessageThread, 0)
	for _, m := range msgs {
		if m.IsReply() {
			continue
		}
		index[m.ID] = len(threads)
		threads = append(threads, model.MessageThread{
			Message: m,
			Author:  author(m.AuthorID),
			Replies: []model.MessageReply{},
		})
	}

	for _, m := range msgs {
		if !m.IsReply() {
			continue
		}
		i, ok := index[m.ParentID]
		if !ok {
			continue
		}
		threads[i].Replies = append(threads[i].Replies, model.MessageReply{Message: m, Author: author(m.AuthorID)})
	}

	for l, r := 0, len(threads)-1; l < r; l, r = l+1, r-1 {
		threads[l], threads[r] = threads[r], threads[l]
	}
	return threads
}

func (s *messageService) ToggleLike(ctx context.Context, messageID, actorID string) (LikeResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: logger.Ptr(messageID)})

	for attempt := 1; attempt <= MaxWriteAttempts; attempt++ {
		msg, err := s.messages.GetByID(ctx, messageID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return LikeResult{}, apperr.NotFound("message not found")
			}
			return LikeResult{}, fmt.Errorf("loading message: %w", err)
		}

		liked := msg.ToggleLike(actorID)

		err = s.messages.Replace(ctx, msg)
		if errors.Is(err, store.ErrRevisionMismatch) {
			metrics.RevisionConflictsTotal.WithLabelValues("supporter_messages").Inc()
			continue
		}
		if err != nil {
			return LikeResult{}, fmt.Errorf("saving like: %w", err)
		}

		action, eventType := "unliked", model.ActivityMessageUnliked
		if liked {
			action, eventType = "liked", model.ActivityMessageLiked
		}
		metrics.MessageLikesTotal.WithLabelValues(action).Inc()
		s.activity.record(ctx, model.ActivityEvent{
			Type:      eventType,
			ActorID:   actorID,
			NeedID:    msg.NeedID,
			MessageID: msg.ID,
		})

		return LikeResult{Liked: liked, LikesCount: len(msg.Likes)}, nil
	}

	slog.WarnContext(ctx, "like abandoned after repeated revision conflicts", "attempts", MaxWriteAttempts)
	return LikeResult{}, apperr.Conflict("message was modified concurrently, retry")
}
