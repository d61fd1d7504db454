package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/id"
	"needsnet.app/api/common/logger"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/metrics"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

// MaxWriteAttempts bounds the read-check-replace loop of revision-guarded writes.
const MaxWriteAttempts = 3

type CreatePollInput struct {
	NeedID    string
	Question  string
	Options   []string
	ExpiresAt *time.Time
	CreatedBy string
}

type PollService interface {
	Create(ctx context.Context, in CreatePollInput) (*model.Poll, error)
	Get(ctx context.Context, id string) (*model.Poll, error)
	ListByNeed(ctx context.Context, needID string) ([]model.Poll, error)
	// Vote records voterID's choice of optionID. A voter votes at most once
	// per poll and never after expiry.
	Vote(ctx context.Context, pollID, optionID, voterID string) (*model.Poll, error)
}

type pollService struct {
	polls    store.PollStore
	needs    store.NeedStore
	clock    clockwork.Clock
	activity activityRecorder
}

func NewPollService(polls store.PollStore, needs store.NeedStore, publisher ActivityPublisher, clock clockwork.Clock) PollService {
	return &pollService{
		polls:    polls,
		needs:    needs,
		clock:    clock,
		activity: activityRecorder{publisher: publisher, clock: clock},
	}
}

func (s *pollService) Create(ctx context.Context, in CreatePollInput) (*model.Poll, error) {
	now := s.clock.Now().UTC()

	question, err := cleanText("question", in.Question, 1, pollQuestionMax)
	if err != nil {
		return nil, err
	}

	if in.ExpiresAt != nil && !in.ExpiresAt.After(now) {
		return nil, apperr.Validation("expiresAt must be in the future")
	}

	seen := make(map[string]struct{}, len(in.Options))
	options := make([]model.PollOption, 0, len(in.Options))
	for _, raw := range in.Options {
		text, err := cleanText("option", raw, 1, pollOptionMax)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return nil, apperr.Validation(fmt.Sprintf("duplicate option %q", text))
		}
		seen[key] = struct{}{}
		options = append(options, model.PollOption{ID: id.New(), Text: text, Voters: []string{}})
	}

	if _, err := s.needs.GetByID(ctx, in.NeedID); err != nil {
		return nil, needLookupError(err)
	}

	var expiresAt *time.Time
	if in.ExpiresAt != nil {
		utc := in.ExpiresAt.UTC()
		expiresAt = &utc
	}

	poll := &model.Poll{
		ID:        id.New(),
		NeedID:    in.NeedID,
		Question:  question,
		Options:   options,
		ExpiresAt: expiresAt,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
	}

	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("creating poll: %w", err)
	}

	slog.InfoContext(ctx, "poll created", "poll_id", poll.ID, "need_id", poll.NeedID, "options", len(options))
	s.activity.record(ctx, model.ActivityEvent{
		Type:    model.ActivityPollCreated,
		ActorID: in.CreatedBy,
		NeedID:  poll.NeedID,
		PollID:  poll.ID,
	})

	return poll, nil
}

func (s *pollService) Get(ctx context.Context, pollID string) (*model.Poll, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("poll not found")
		}
		return nil, fmt.Errorf("getting poll: %w", err)
	}
	return poll, nil
}

func (s *pollService) ListByNeed(ctx context.Context, needID string) ([]model.Poll, error) {
	if _, err := s.needs.GetByID(ctx, needID); err != nil {
		return nil, needLookupError(err)
	}

	polls, err := s.polls.ListByNeed(ctx, needID)
	if err != nil {
		return nil, fmt.Errorf("listing polls: %w", err)
	}
	return polls, nil
}

func (s *pollService) Vote(ctx context.Context, pollID, optionID, voterID string) (*model.Poll, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{PollID: logger.Ptr(pollID)})

	for attempt := 1; attempt <= MaxWriteAttempts; attempt++ {
		poll, err := s.polls.GetByID(ctx, pollID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				metrics.PollVotesTotal.WithLabelValues("not_found").Inc()
				return nil, apperr.NotFound("poll not found")
			}
			return nil, fmt.Errorf("loading poll: %w", err)
		}

		if poll.IsExpired(s.clock.Now()) {
			metrics.PollVotesTotal.WithLabelValues("expired").Inc()
			return nil, apperr.FailedPrecondition("poll has expired")
		}

		if poll.HasVoted(voterID) {
			metrics.PollVotesTotal.WithLabelValues("duplicate").Inc()
			return nil, apperr.Conflict("already voted")
		}

		option := poll.Option(optionID)
		if option == nil {
			metrics.PollVotesTotal.WithLabelValues("unknown_option").Inc()
			return nil, apperr.NotFound("option not found")
		}

		option.Voters = append(option.Voters, voterID)

		err = s.polls.Replace(ctx, poll)
		if errors.Is(err, store.ErrRevisionMismatch) {
			metrics.RevisionConflictsTotal.WithLabelValues("polls").Inc()
			slog.DebugContext(ctx, "poll changed during vote, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("saving vote: %w", err)
		}

		metrics.PollVotesTotal.WithLabelValues("accepted").Inc()
		slog.InfoContext(ctx, "vote recorded", "option_id", optionID, "attempt", attempt)
		s.activity.record(ctx, model.ActivityEvent{
			Type:     model.ActivityPollVoted,
			ActorID:  voterID,
			NeedID:   poll.NeedID,
			PollID:   poll.ID,
			OptionID: optionID,
		})
		return poll, nil
	}

	metrics.PollVotesTotal.WithLabelValues("contention").Inc()
	slog.WarnContext(ctx, "vote abandoned after repeated revision conflicts", "attempts", MaxWriteAttempts)
	return nil, apperr.Conflict("poll was modified concurrently, retry")
}

func needLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("need not found")
	}
	return fmt.Errorf("getting need: %w", err)
}
