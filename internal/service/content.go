package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"needsnet.app/api/common"
	"needsnet.app/api/common/id"
	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/search"
	"needsnet.app/api/internal/store"
)

type ArticleInput struct {
	Title     string
	Excerpt   string
	Body      string
	ImageURL  string
	Category  model.ArticleCategory
	Tags      []string
	Published bool
}

// ArticlePatch holds a partial article update; nil fields are left unchanged.
type ArticlePatch struct {
	Title     *string
	Excerpt   *string
	Body      *string
	ImageURL  *string
	Category  *model.ArticleCategory
	Tags      []string
	Published *bool
}

type VideoInput struct {
	Title        string
	URL          string
	ThumbnailURL string
	Description  string
}

type GalleryInput struct {
	Title         string
	CoverImageURL string
	Images        []string
	Description   string
}

type ContentService interface {
	ListArticles(ctx context.Context, category model.ArticleCategory, limit, offset int) ([]model.Article, error)
	GetArticle(ctx context.Context, slug string) (*model.Article, error)
	SearchArticles(ctx context.Context, q string, limit int) ([]model.Article, error)
	CreateArticle(ctx context.Context, in ArticleInput) (*model.Article, error)
	UpdateArticle(ctx context.Context, id string, patch ArticlePatch) (*model.Article, error)
	DeleteArticle(ctx context.Context, id string) error

	ListVideos(ctx context.Context) ([]model.Video, error)
	CreateVideo(ctx context.Context, in VideoInput) (*model.Video, error)
	ListGalleries(ctx context.Context) ([]model.Gallery, error)
	CreateGallery(ctx context.Context, in GalleryInput) (*model.Gallery, error)
}

type contentService struct {
	articles  store.ArticleStore
	videos    store.VideoStore
	galleries store.GalleryStore
	index     search.ArticleIndex
	clock     clockwork.Clock
}

// NewContentService wires the content stores. index may be nil, in which
// case search answers Unavailable and writes skip indexing.
func NewContentService(articles store.ArticleStore, videos store.VideoStore, galleries store.GalleryStore, index search.ArticleIndex, clock clockwork.Clock) ContentService {
	return &contentService{
		articles:  articles,
		videos:    videos,
		galleries: galleries,
		index:     index,
		clock:     clock,
	}
}

func (s *contentService) ListArticles(ctx context.Context, category model.ArticleCategory, limit, offset int) ([]model.Article, error) {
	articles, err := s.articles.ListPublished(ctx, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	return articles, nil
}

func (s *contentService) GetArticle(ctx context.Context, slug string) (*model.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, articleLookupError(err)
	}
	return article, nil
}

func (s *contentService) SearchArticles(ctx context.Context, q string, limit int) ([]model.Article, error) {
	if s.index == nil {
		return nil, apperr.Unavailable("article search is not configured")
	}

	articles, err := s.index.Search(ctx, strings.TrimSpace(q), limit)
	if err != nil {
		return nil, apperr.Unavailable("article search is unavailable").WithCause(err)
	}
	return articles, nil
}

func (s *contentService) CreateArticle(ctx context.Context, in ArticleInput) (*model.Article, error) {
	slug, err := s.uniqueSlug(ctx, in.Title, s.articles.SlugsWithPrefix)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	article := &model.Article{
		ID:        id.New(),
		Title:     strings.TrimSpace(in.Title),
		Slug:      slug,
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Body:      in.Body,
		ImageURL:  in.ImageURL,
		Category:  in.Category,
		Tags:      normalizeTags(in.Tags),
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if article.Published {
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("an article with this slug already exists")
		}
		return nil, fmt.Errorf("creating article: %w", err)
	}

	slog.InfoContext(ctx, "article created", "article_id", article.ID, "slug", article.Slug)
	s.reindex(ctx, *article)
	return article, nil
}

func (s *contentService) UpdateArticle(ctx context.Context, articleID string, patch ArticlePatch) (*model.Article, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, articleLookupError(err)
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != article.Title {
		article.Title = strings.TrimSpace(*patch.Title)
		slug, err := s.uniqueSlug(ctx, article.Title, s.articles.SlugsWithPrefix)
		if err != nil {
			return nil, err
		}
		article.Slug = slug
	}
	if patch.Excerpt != nil {
		article.Excerpt = strings.TrimSpace(*patch.Excerpt)
	}
	if patch.Body != nil {
		article.Body = *patch.Body
	}
	if patch.ImageURL != nil {
		article.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		article.Category = *patch.Category
	}
	if patch.Tags != nil {
		article.Tags = normalizeTags(patch.Tags)
	}

	now := s.clock.Now().UTC()
	if patch.Published != nil {
		if *patch.Published && !article.Published {
			article.PublishedAt = &now
		}
		article.Published = *patch.Published
	}
	article.UpdatedAt = now

	if err := s.articles.Update(ctx, article); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("an article with this slug already exists")
		}
		return nil, articleLookupError(err)
	}

	s.reindex(ctx, *article)
	return article, nil
}

func (s *contentService) DeleteArticle(ctx context.Context, articleID string) error {
	if err := s.articles.Delete(ctx, articleID); err != nil {
		return articleLookupError(err)
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, articleID); err != nil {
			slog.WarnContext(ctx, "failed to remove article from search index", "error", err, "article_id", articleID)
		}
	}
	slog.InfoContext(ctx, "article deleted", "article_id", articleID)
	return nil
}

func (s *contentService) ListVideos(ctx context.Context) ([]model.Video, error) {
	videos, err := s.videos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return videos, nil
}

func (s *contentService) CreateVideo(ctx context.Context, in VideoInput) (*model.Video, error) {
	slug, err := s.uniqueSlug(ctx, in.Title, s.videos.SlugsWithPrefix)
	if err != nil {
		return nil, err
	}

	video := &model.Video{
		ID:           id.New(),
		Title:        strings.TrimSpace(in.Title),
		Slug:         slug,
		URL:          in.URL,
		ThumbnailURL: in.ThumbnailURL,
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("creating video: %w", err)
	}
	return video, nil
}

func (s *contentService) ListGalleries(ctx context.Context) ([]model.Gallery, error) {
	galleries, err := s.galleries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing galleries: %w", err)
	}
	return galleries, nil
}

func (s *contentService) CreateGallery(ctx context.Context, in GalleryInput) (*model.Gallery, error) {
	slug, err := s.uniqueSlug(ctx, in.Title, s.galleries.SlugsWithPrefix)
	if err != nil {
		return nil, err
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	gallery := &model.Gallery{
		ID:            id.New(),
		Title:         strings.TrimSpace(in.Title),
		Slug:          slug,
		CoverImageURL: in.CoverImageURL,
		Images:        images,
		Description:   strings.TrimSpace(in.Description),
		CreatedAt:     s.clock.Now().UTC(),
	}
	if err := s.galleries.Create(ctx, gallery); err != nil {
		return nil, fmt.Errorf("creating gallery: %w", err)
	}
	return gallery, nil
}

func (s *contentService) uniqueSlug(ctx context.Context, title string, taken func(context.Context, string) ([]string, error)) (string, error) {
	base, err := common.Slugify(title, "")
	if err != nil {
		return "", apperr.Validation("title must contain letters or digits")
	}

	existing, err := taken(ctx, base)
	if err != nil {
		return "", fmt.Errorf("checking slug: %w", err)
	}
	return common.UniqueSlug(base, existing), nil
}

func (s *contentService) reindex(ctx context.Context, article model.Article) {
	if s.index == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.index.Upsert(ctx, article); err != nil {
		slog.WarnContext(ctx, "failed to index article", "error", err, "article_id", article.ID)
	}
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func articleLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("article not found")
	}
	return fmt.Errorf("article: %w", err)
}
