package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common/id"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
)

type CreateNeedInput struct {
	Title       string
	Description string
	Category    string
	Author      model.User
}

type NeedService interface {
	Create(ctx context.Context, in CreateNeedInput) (*model.Need, error)
	Get(ctx context.Context, id string) (*model.Need, error)
	ListOpen(ctx context.Context, limit, offset int) ([]model.Need, error)
	UpdateStatus(ctx context.Context, id string, status model.NeedStatus) (*model.Need, error)
}

type needService struct {
	needs    store.NeedStore
	users    store.UserStore
	clock    clockwork.Clock
	activity activityRecorder
}

func NewNeedService(needs store.NeedStore, users store.UserStore, publisher ActivityPublisher, clock clockwork.Clock) NeedService {
	return &needService{
		needs:    needs,
		users:    users,
		clock:    clock,
		activity: activityRecorder{publisher: publisher, clock: clock},
	}
}

func (s *needService) Create(ctx context.Context, in CreateNeedInput) (*model.Need, error) {
	title, err := cleanText("title", in.Title, needTitleMin, needTitleMax)
	if err != nil {
		return nil, err
	}
	description, err := cleanText("description", in.Description, needDescriptionMin, needDescriptionMax)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	syncUser(ctx, s.users, in.Author, now)

	need := &model.Need{
		ID:          id.New(),
		Title:       title,
		Description: description,
		Category:    strings.TrimSpace(in.Category),
		Status:      model.NeedStatusOpen,
		CreatedBy:   in.Author.ID,
		CreatedAt:   now,
	}

	if err := s.needs.Create(ctx, need); err != nil {
		return nil, fmt.Errorf("creating need: %w", err)
	}

	slog.InfoContext(ctx, "need created", "need_id", need.ID)
	s.activity.record(ctx, model.ActivityEvent{
		Type:    model.ActivityNeedCreated,
		ActorID: in.Author.ID,
		NeedID:  need.ID,
	})
	return need, nil
}

func (s *needService) Get(ctx context.Context, needID string) (*model.Need, error) {
	need, err := s.needs.GetByID(ctx, needID)
	if err != nil {
		return nil, needLookupError(err)
	}
	return need, nil
}

func (s *needService) ListOpen(ctx context.Context, limit, offset int) ([]model.Need, error) {
	needs, err := s.needs.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing needs: %w", err)
	}
	return needs, nil
}

func (s *needService) UpdateStatus(ctx context.Context, needID string, status model.NeedStatus) (*model.Need, error) {
	need, err := s.needs.UpdateStatus(ctx, needID, status)
	if err != nil {
		return nil, needLookupError(err)
	}
	slog.InfoContext(ctx, "need status updated", "need_id", needID, "status", status)
	return need, nil
}
