package store

import (
	"context"
	"fmt"
	"time"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/internal/model"
)

type articleDoc struct {
	Key         string                `json:"_key"`
	Title       string                `json:"title"`
	Slug        string                `json:"slug"`
	Excerpt     string                `json:"excerpt"`
	Body        string                `json:"body"`
	ImageURL    string                `json:"imageUrl,omitempty"`
	Category    model.ArticleCategory `json:"category"`
	Tags        []string              `json:"tags"`
	Published   bool                  `json:"published"`
	PublishedAt *time.Time            `json:"publishedAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

type articleStore struct {
	db arangodb.Client
}

func newArticleStore(db arangodb.Client) ArticleStore {
	return &articleStore{db: db}
}

func (s *articleStore) Create(ctx context.Context, article *model.Article) error {
	if _, err := s.db.CreateDocument(ctx, collArticles, toArticleDoc(article)); err != nil {
		return fmt.Errorf("create article: %w", mapErr(err))
	}
	return nil
}

func (s *articleStore) GetByID(ctx context.Context, id string) (*model.Article, error) {
	var doc articleDoc
	if _, err := s.db.ReadDocument(ctx, collArticles, id, &doc); err != nil {
		return nil, mapErr(err)
	}
	return toArticleModel(doc), nil
}

func (s *articleStore) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	doc, err := arangodb.QueryOne[articleDoc](ctx, s.db,
		`FOR a IN articles FILTER a.slug == @slug && a.published == true LIMIT 1 RETURN a`,
		map[string]any{"slug": slug})
	if err != nil {
		return nil, mapErr(err)
	}
	return toArticleModel(doc), nil
}

func (s *articleStore) ListPublished(ctx context.Context, category model.ArticleCategory, limit, offset int) ([]model.Article, error) {
	docs, err := arangodb.QueryAll[articleDoc](ctx, s.db, `
		FOR a IN articles
			FILTER a.published == true
			FILTER @category == "" || a.category == @category
			SORT a.publishedAt DESC
			LIMIT @offset, @limit
			RETURN UNSET(a, "body")`,
		map[string]any{"category": category, "offset": offset, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", mapErr(err))
	}

	articles := make([]model.Article, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, *toArticleModel(d))
	}
	return articles, nil
}

func (s *articleStore) Update(ctx context.Context, article *model.Article) error {
	if _, err := s.db.ReplaceDocument(ctx, collArticles, article.ID, toArticleDoc(article), ""); err != nil {
		return mapErr(err)
	}
	return nil
}

func (s *articleStore) Delete(ctx context.Context, id string) error {
	return mapErr(s.db.RemoveDocument(ctx, collArticles, id))
}

func (s *articleStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return slugsWithPrefix(ctx, s.db, collArticles, prefix)
}

type videoDoc struct {
	Key          string    `json:"_key"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type videoStore struct {
	db arangodb.Client
}

func newVideoStore(db arangodb.Client) VideoStore {
	return &videoStore{db: db}
}

func (s *videoStore) Create(ctx context.Context, v *model.Video) error {
	doc := videoDoc{
		Key:          v.ID,
		Title:        v.Title,
		Slug:         v.Slug,
		URL:          v.URL,
		ThumbnailURL: v.ThumbnailURL,
		Description:  v.Description,
		CreatedAt:    v.CreatedAt,
	}
	if _, err := s.db.CreateDocument(ctx, collVideos, doc); err != nil {
		return fmt.Errorf("create video: %w", mapErr(err))
	}
	return nil
}

func (s *videoStore) List(ctx context.Context) ([]model.Video, error) {
	docs, err := arangodb.QueryAll[videoDoc](ctx, s.db,
		`FOR v IN videos SORT v.createdAt DESC RETURN v`, nil)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", mapErr(err))
	}

	videos := make([]model.Video, 0, len(docs))
	for _, d := range docs {
		videos = append(videos, model.Video{
			ID:           d.Key,
			Title:        d.Title,
			Slug:         d.Slug,
			URL:          d.URL,
			ThumbnailURL: d.ThumbnailURL,
			Description:  d.Description,
			CreatedAt:    d.CreatedAt,
		})
	}
	return videos, nil
}

func (s *videoStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return slugsWithPrefix(ctx, s.db, collVideos, prefix)
}

type galleryDoc struct {
	Key           string    `json:"_key"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Images        []string  `json:"images"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type galleryStore struct {
	db arangodb.Client
}

func newGalleryStore(db arangodb.Client) GalleryStore {
	return &galleryStore{db: db}
}

func (s *galleryStore) Create(ctx context.Context, g *model.Gallery) error {
	images := g.Images
	if images == nil {
		images = []string{}
	}
	doc := galleryDoc{
		Key:           g.ID,
		Title:         g.Title,
		Slug:          g.Slug,
		CoverImageURL: g.CoverImageURL,
		Images:        images,
		Description:   g.Description,
		CreatedAt:     g.CreatedAt,
	}
	if _, err := s.db.CreateDocument(ctx, collGalleries, doc); err != nil {
		return fmt.Errorf("create gallery: %w", mapErr(err))
	}
	return nil
}

func (s *galleryStore) List(ctx context.Context) ([]model.Gallery, error) {
	docs, err := arangodb.QueryAll[galleryDoc](ctx, s.db,
		`FOR g IN galleries SORT g.createdAt DESC RETURN g`, nil)
	if err != nil {
		return nil, fmt.Errorf("list galleries: %w", mapErr(err))
	}

	galleries := make([]model.Gallery, 0, len(docs))
	for _, d := range docs {
		galleries = append(galleries, model.Gallery{
			ID:            d.Key,
			Title:         d.Title,
			Slug:          d.Slug,
			CoverImageURL: d.CoverImageURL,
			Images:        d.Images,
			Description:   d.Description,
			CreatedAt:     d.CreatedAt,
		})
	}
	return galleries, nil
}

func (s *galleryStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	return slugsWithPrefix(ctx, s.db, collGalleries, prefix)
}

func slugsWithPrefix(ctx context.Context, q arangodb.Querier, collection, prefix string) ([]string, error) {
	slugs, err := arangodb.QueryAll[string](ctx, q,
		`FOR d IN @@collection FILTER STARTS_WITH(d.slug, @prefix) RETURN d.slug`,
		map[string]any{"@collection": collection, "prefix": prefix})
	if err != nil {
		return nil, fmt.Errorf("list %s slugs: %w", collection, mapErr(err))
	}
	return slugs, nil
}

func toArticleDoc(a *model.Article) articleDoc {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleDoc{
		Key:         a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Body:        a.Body,
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		Tags:        tags,
		Published:   a.Published,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticleModel(d articleDoc) *model.Article {
	return &model.Article{
		ID:          d.Key,
		Title:       d.Title,
		Slug:        d.Slug,
		Excerpt:     d.Excerpt,
		Body:        d.Body,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
		Tags:        d.Tags,
		Published:   d.Published,
		PublishedAt: d.PublishedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
