package model

import "time"

type ArticleCategory string

const (
	ArticleCategoryBlog ArticleCategory = "blog"
	ArticleCategoryNews ArticleCategory = "news"
)

type Article struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Excerpt     string          `json:"excerpt"`
	Body        string          `json:"body,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Category    ArticleCategory `json:"category"`
	Tags        []string        `json:"tags"`
	Published   bool            `json:"published"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Gallery struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	Images        []string  `json:"images"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
