package store

import (
	"context"
	"fmt"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type featuredItemDoc struct {
	Key      string         `json:"_key"`
	Order    int            `json:"order"`
	Item     string         `json:"item"`
	ItemType model.ItemType `json:"itemType"`
}

// featuredTarget describes where an item type lives and how its fields map
// onto the common featured view.
type featuredTarget struct {
	collection string
	projection string
}

var featuredTargets = map[model.ItemType]featuredTarget{
	model.ItemTypeArticle: {
		collection: collArticles,
		projection: `{ id: d._key, title: d.title, slug: d.slug, imageUrl: d.imageUrl, excerpt: d.excerpt }`,
	},
	model.ItemTypeVideo: {
		collection: collVideos,
		projection: `{ id: d._key, title: d.title, slug: d.slug, imageUrl: d.thumbnailUrl, excerpt: d.description }`,
	},
	model.ItemTypeGallery: {
		collection: collGalleries,
		projection: `{ id: d._key, title: d.title, slug: d.slug, imageUrl: d.coverImageUrl, excerpt: d.description }`,
	},
}

type featuredItemStore struct {
	db arangodb.Client
}

func newFeaturedItemStore(db arangodb.Client) FeaturedItemStore {
	return &featuredItemStore{db: db}
}

func (s *featuredItemStore) List(ctx context.Context) ([]model.FeaturedItem, error) {
	docs, err := arangodb.QueryAll[featuredItemDoc](ctx, s.db,
		`FOR f IN featured_items SORT f.order ASC RETURN f`, nil)
	if err != nil {
		return nil, fmt.Errorf("list featured items: %w", mapErr(err))
	}

	idsByType := make(map[model.ItemType][]string)
	for _, d := range docs {
		idsByType[d.ItemType] = append(idsByType[d.ItemType], d.Item)
	}

	resolved := make(map[model.ItemType]map[string]model.FeaturedContent, len(idsByType))
	for itemType, ids := range idsByType {
		contents, err := s.Resolve(ctx, itemType, ids)
		if err != nil {
			return nil, err
		}
		resolved[itemType] = contents
	}

	items := make([]model.FeaturedItem, 0, len(docs))
	for _, d := range docs {
		item := model.FeaturedItem{
			ID:       d.Key,
			Order:    d.Order,
			ItemID:   d.Item,
			ItemType: d.ItemType,
		}
		if content, ok := resolved[d.ItemType][d.Item]; ok {
			item.Item = &content
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *featuredItemStore) Resolve(ctx context.Context, itemType model.ItemType, ids []string) (map[string]model.FeaturedContent, error) {
	target, ok := featuredTargets[itemType]
	if !ok {
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}

	result := make(map[string]model.FeaturedContent, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`FOR d IN @@collection FILTER d._key IN @keys RETURN %s`, target.projection)
	contents, err := arangodb.QueryAll[model.FeaturedContent](ctx, s.db, query, map[string]any{
		"@collection": target.collection,
		"keys":        ids,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve %s references: %w", itemType, mapErr(err))
	}

	for _, c := range contents {
		result[c.ID] = c
	}
	return result, nil
}

func (s *featuredItemStore) ReplaceAll(ctx context.Context, items []model.FeaturedItem) error {
	docs := make([]featuredItemDoc, 0, len(items))
	for _, it := range items {
		docs = append(docs, featuredItemDoc{
			Key:      it.ID,
			Order:    it.Order,
			Item:     it.ItemID,
			ItemType: it.ItemType,
		})
	}

	err := s.db.WithTransaction(ctx, []string{collFeaturedItems}, func(ctx context.Context, tx arangodb.Querier) error {
		cursor, err := tx.Query(ctx, `FOR f IN featured_items REMOVE f IN featured_items`, nil)
		if err != nil {
			return fmt.Errorf("clear featured items: %w", err)
		}
		_ = cursor.Close()

		cursor, err = tx.Query(ctx, `FOR d IN @docs INSERT d INTO featured_items`, map[string]any{"docs": docs})
		if err != nil {
			return fmt.Errorf("insert featured items: %w", err)
		}
		return cursor.Close()
	})
	if err != nil {
		return mapErr(err)
	}
	return nil
}
