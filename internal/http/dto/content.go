package dto

import "needsnet.app/api/internal/model"

type ArticleListQuery struct {
	PageQuery
	Category string `form:"category" binding:"omitempty,oneof=blog news"`
}

type SearchQuery struct {
	Q     string `form:"q" binding:"required,notblank,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type SlugURI struct {
	Slug string `uri:"slug" binding:"required,max=200"`
}

type ArticleURI struct {
	ArticleID string `uri:"articleId" binding:"required,objectid"`
}

type CreateArticleRequest struct {
	Title     string   `json:"title" binding:"required,notblank,min=3,max=200" jsonschema:"minLength=3,maxLength=200"`
	Excerpt   string   `json:"excerpt,omitempty" binding:"omitempty,max=500" jsonschema:"maxLength=500"`
	Body      string   `json:"body" binding:"required,notblank" jsonschema:"minLength=1"`
	ImageURL  string   `json:"imageUrl,omitempty" binding:"omitempty,url" jsonschema:"format=uri"`
	Category  string   `json:"category" binding:"required,oneof=blog news" jsonschema:"enum=blog,enum=news"`
	Tags      []string `json:"tags,omitempty" binding:"omitempty,max=20,dive,min=1,max=50" jsonschema:"maxItems=20"`
	Published bool     `json:"published,omitempty"`
}

type UpdateArticleRequest struct {
	Title     *string  `json:"title,omitempty" binding:"omitempty,notblank,min=3,max=200"`
	Excerpt   *string  `json:"excerpt,omitempty" binding:"omitempty,max=500"`
	Body      *string  `json:"body,omitempty" binding:"omitempty,notblank"`
	ImageURL  *string  `json:"imageUrl,omitempty" binding:"omitempty,url"`
	Category  *string  `json:"category,omitempty" binding:"omitempty,oneof=blog news"`
	Tags      []string `json:"tags,omitempty" binding:"omitempty,max=20,dive,min=1,max=50"`
	Published *bool    `json:"published,omitempty"`
}

type CreateVideoRequest struct {
	Title        string `json:"title" binding:"required,notblank,min=3,max=200"`
	URL          string `json:"url" binding:"required,url"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" binding:"omitempty,url"`
	Description  string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type CreateGalleryRequest struct {
	Title         string   `json:"title" binding:"required,notblank,min=3,max=200"`
	CoverImageURL string   `json:"coverImageUrl,omitempty" binding:"omitempty,url"`
	Images        []string `json:"images,omitempty" binding:"omitempty,max=100,dive,url"`
	Description   string   `json:"description,omitempty" binding:"omitempty,max=2000"`
}

// ToArticleSummaries drops article bodies for list and search responses.
func ToArticleSummaries(articles []model.Article) []model.Article {
	out := make([]model.Article, len(articles))
	for i, a := range articles {
		a.Body = ""
		out[i] = a
	}
	return out
}
