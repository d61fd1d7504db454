package store

import (
	"context"
	"fmt"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

const statsQuery = `
RETURN {
	needs: {
		open: LENGTH(FOR n IN needs FILTER n.status == "open" RETURN 1),
		closed: LENGTH(FOR n IN needs FILTER n.status == "closed" RETURN 1)
	},
	polls: LENGTH(polls),
	votes: SUM(FOR p IN polls FOR o IN p.options RETURN LENGTH(o.voters)),
	messages: LENGTH(supporter_messages),
	likes: SUM(FOR m IN supporter_messages RETURN LENGTH(m.likes)),
	articles: LENGTH(articles)
}`

type dashboardStore struct {
	db arangodb.Client
}

func newDashboardStore(db arangodb.Client) DashboardStore {
	return &dashboardStore{db: db}
}

func (s *dashboardStore) Stats(ctx context.Context) (model.DashboardStats, error) {
	stats, err := arangodb.QueryOne[model.DashboardStats](ctx, s.db, statsQuery, nil)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("dashboard stats: %w", mapErr(err))
	}
	return stats, nil
}
