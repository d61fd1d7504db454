// Package search keeps a Typesense full-text index of published articles.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"needsnet.app/api/internal/model"
)

const queryBy = "title,excerpt,tags"

// ArticleIndex is the search side of the article collection.
type ArticleIndex interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, article model.Article) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, limit int) ([]model.Article, error)
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
}

type articleDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	ImageURL    string   `json:"image_url,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	PublishedAt int64    `json:"published_at"`
}

type typesenseIndex struct {
	client     *typesense.Client
	collection string
}

func NewArticleIndex(cfg Config) ArticleIndex {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &typesenseIndex{client: client, collection: cfg.Collection}
}

func (i *typesenseIndex) EnsureCollection(ctx context.Context) error {
	schema := &api.CollectionSchema{
		Name: i.collection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "excerpt", Type: "string"},
			{Name: "tags", Type: "string[]", Facet: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "slug", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "image_url", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "published_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("published_at"),
	}

	_, err := i.client.Collections().Create(ctx, schema)
	if err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusConflict {
			return nil
		}
		return fmt.Errorf("create typesense collection %s: %w", i.collection, err)
	}

	slog.InfoContext(ctx, "typesense collection created", "collection", i.collection)
	return nil
}

// Upsert indexes a published article and drops an unpublished one.
func (i *typesenseIndex) Upsert(ctx context.Context, article model.Article) error {
	if !article.Published {
		return i.Delete(ctx, article.ID)
	}

	doc := toArticleDocument(article)
	if _, err := i.client.Collection(i.collection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("upsert article %s: %w", article.ID, err)
	}
	return nil
}

func (i *typesenseIndex) Delete(ctx context.Context, id string) error {
	_, err := i.client.Collection(i.collection).Document(id).Delete(ctx)
	if err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

func (i *typesenseIndex) Search(ctx context.Context, q string, limit int) ([]model.Article, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(q),
		QueryBy: pointer.String(queryBy),
		PerPage: pointer.Int(limit),
	}

	result, err := i.client.Collection(i.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}

	articles := make([]model.Article, 0)
	if result.Hits == nil {
		return articles, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		article, err := decodeHit(*hit.Document)
		if err != nil {
			slog.WarnContext(ctx, "skipping undecodable search hit", "error", err)
			continue
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func toArticleDocument(a model.Article) articleDocument {
	var publishedAt int64
	if a.PublishedAt != nil {
		publishedAt = a.PublishedAt.Unix()
	}
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleDocument{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		ImageURL:    a.ImageURL,
		Category:    string(a.Category),
		Tags:        tags,
		PublishedAt: publishedAt,
	}
}

func decodeHit(raw map[string]any) (model.Article, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return model.Article{}, err
	}
	var doc articleDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.Article{}, err
	}

	article := model.Article{
		ID:        doc.ID,
		Title:     doc.Title,
		Slug:      doc.Slug,
		Excerpt:   doc.Excerpt,
		ImageURL:  doc.ImageURL,
		Category:  model.ArticleCategory(doc.Category),
		Tags:      doc.Tags,
		Published: true,
	}
	if doc.PublishedAt > 0 {
		t := time.Unix(doc.PublishedAt, 0).UTC()
		article.PublishedAt = &t
	}
	return article, nil
}
