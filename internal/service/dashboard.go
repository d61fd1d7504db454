package service

import (
	"context"
	"errors"
	"fmt"

	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/store"
	"needsnet.app/api/internal/wordcloud"
)

const DefaultWordCloudLimit = 50

type DashboardService interface {
	Stats(ctx context.Context) (model.DashboardStats, error)
	// WordCloud returns the need's most frequent terms. It is empty until the
	// worker has counted at least one message.
	WordCloud(ctx context.Context, needID string, limit int) ([]model.TermCount, error)
}

type dashboardService struct {
	dashboard  store.DashboardStore
	needs      store.NeedStore
	wordClouds store.WordCloudStore
}

func NewDashboardService(dashboard store.DashboardStore, needs store.NeedStore, wordClouds store.WordCloudStore) DashboardService {
	return &dashboardService{
		dashboard:  dashboard,
		needs:      needs,
		wordClouds: wordClouds,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (model.DashboardStats, error) {
	stats, err := s.dashboard.Stats(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("computing stats: %w", err)
	}
	return stats, nil
}

func (s *dashboardService) WordCloud(ctx context.Context, needID string, limit int) ([]model.TermCount, error) {
	if _, err := s.needs.GetByID(ctx, needID); err != nil {
		return nil, needLookupError(err)
	}

	if limit <= 0 {
		limit = DefaultWordCloudLimit
	}

	cloud, err := s.wordClouds.Get(ctx, needID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.TermCount{}, nil
		}
		return nil, fmt.Errorf("loading word cloud: %w", err)
	}
	return wordcloud.Top(cloud.Terms, limit), nil
}
