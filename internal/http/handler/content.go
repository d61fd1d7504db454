package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
)

const defaultSearchLimit = 10

type ContentHandler struct {
	content service.ContentService
}

func NewContentHandler(content service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

func (h *ContentHandler) ListArticles(c *gin.Context) {
	var q dto.ArticleListQuery
	if !bindQuery(c, &q) {
		return
	}

	limit, offset := q.Page()
	articles, err := h.content.ListArticles(c.Request.Context(), model.ArticleCategory(q.Category), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToArticleSummaries(articles))
}

func (h *ContentHandler) SearchArticles(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultSearchLimit
	}

	articles, err := h.content.SearchArticles(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, dto.ToArticleSummaries(articles))
}

func (h *ContentHandler) GetArticle(c *gin.Context) {
	var uri dto.SlugURI
	if !bindURI(c, &uri) {
		return
	}

	article, err := h.content.GetArticle(c.Request.Context(), uri.Slug)
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, article)
}

func (h *ContentHandler) CreateArticle(c *gin.Context) {
	var req dto.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	article, err := h.content.CreateArticle(c.Request.Context(), service.ArticleInput{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Category:  model.ArticleCategory(req.Category),
		Tags:      req.Tags,
		Published: req.Published,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "article created", article)
}

func (h *ContentHandler) UpdateArticle(c *gin.Context) {
	var uri dto.ArticleURI
	if !bindURI(c, &uri) {
		return
	}
	var req dto.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := service.ArticlePatch{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Tags:      req.Tags,
		Published: req.Published,
	}
	if req.Category != nil {
		category := model.ArticleCategory(*req.Category)
		patch.Category = &category
	}

	article, err := h.content.UpdateArticle(c.Request.Context(), uri.ArticleID, patch)
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "article updated", article)
}

func (h *ContentHandler) DeleteArticle(c *gin.Context) {
	var uri dto.ArticleURI
	if !bindURI(c, &uri) {
		return
	}

	if err := h.content.DeleteArticle(c.Request.Context(), uri.ArticleID); err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "article deleted", nil)
}

func (h *ContentHandler) ListVideos(c *gin.Context) {
	videos, err := h.content.ListVideos(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, videos)
}

func (h *ContentHandler) CreateVideo(c *gin.Context) {
	var req dto.CreateVideoRequest
	if !bindJSON(c, &req) {
		return
	}

	video, err := h.content.CreateVideo(c.Request.Context(), service.VideoInput{
		Title:        req.Title,
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		Description:  req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "video created", video)
}

func (h *ContentHandler) ListGalleries(c *gin.Context) {
	galleries, err := h.content.ListGalleries(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, galleries)
}

func (h *ContentHandler) CreateGallery(c *gin.Context) {
	var req dto.CreateGalleryRequest
	if !bindJSON(c, &req) {
		return
	}

	gallery, err := h.content.CreateGallery(c.Request.Context(), service.GalleryInput{
		Title:         req.Title,
		CoverImageURL: req.CoverImageURL,
		Images:        req.Images,
		Description:   req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "gallery created", gallery)
}
