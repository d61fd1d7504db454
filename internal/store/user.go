package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type userDoc struct {
	Key       string    `json:"_key"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type userStore struct {
	db arangodb.Client
}

func newUserStore(db arangodb.Client) UserStore {
	return &userStore{db: db}
}

func (s *userStore) Upsert(ctx context.Context, user model.User) error {
	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, name: @name, updatedAt: @updatedAt }
		UPDATE { name: @name, updatedAt: @updatedAt }
		IN users`

	cursor, err := s.db.Query(ctx, query, map[string]any{
		"key":       user.ID,
		"name":      user.Name,
		"updatedAt": user.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, mapErr(err))
	}
	return cursor.Close()
}

func (s *userStore) GetByIDs(ctx context.Context, ids []string) (map[string]model.User, error) {
	users := make(map[string]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	docs, err := arangodb.QueryAll[userDoc](ctx, s.db,
		`FOR u IN users FILTER u._key IN @keys RETURN u`,
		map[string]any{"keys": ids})
	if err != nil {
		return nil, fmt.Errorf("get users: %w", mapErr(err))
	}

	for _, d := range docs {
		users[d.Key] = model.User{ID: d.Key, Name: d.Name, UpdatedAt: d.UpdatedAt}
	}
	return users, nil
}
