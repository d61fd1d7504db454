package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/http/handler"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
)

var _ = Describe("ContentHandler", func() {
	var (
		router *gin.Engine
		svc    *mockContentService
	)

	BeforeEach(func() {
		svc = &mockContentService{}
		h := handler.NewContentHandler(svc)
		router = newRouter()
		router.GET("/articles/search", h.SearchArticles)
		router.POST("/articles", asUser(userID, "ADMIN"), h.CreateArticle)
	})

	It("returns summaries without bodies", func() {
		svc.searchFn = func(_ context.Context, q string, limit int) ([]model.Article, error) {
			Expect(q).To(Equal("water"))
			Expect(limit).To(Equal(10))
			return []model.Article{{ID: articleID, Title: "Clean water", Body: "long text"}}, nil
		}

		w := doJSON(router, http.MethodGet, "/articles/search?q=water", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		var found []model.Article
		Expect(json.Unmarshal(decode(w).Data, &found)).To(Succeed())
		Expect(found).To(HaveLen(1))
		Expect(found[0].Body).To(BeEmpty())
	})

	It("answers 503 when search is unavailable", func() {
		svc.searchFn = func(context.Context, string, int) ([]model.Article, error) {
			return nil, apperr.Unavailable("article search is unavailable").WithCause(errors.New("dial tcp"))
		}

		w := doJSON(router, http.MethodGet, "/articles/search?q=water", nil)

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(decode(w).Message).To(Equal("article search is unavailable"))
	})

	It("requires a query", func() {
		Expect(doJSON(router, http.MethodGet, "/articles/search", nil).Code).To(Equal(http.StatusBadRequest))
	})

	It("creates an article", func() {
		svc.createFn = func(_ context.Context, in service.ArticleInput) (*model.Article, error) {
			Expect(in.Category).To(Equal(model.ArticleCategoryNews))
			return &model.Article{ID: articleID, Title: in.Title, Slug: "site-update"}, nil
		}

		w := doJSON(router, http.MethodPost, "/articles", map[string]any{
			"title":    "Site update",
			"body":     "We moved.",
			"category": "news",
		})

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(string(decode(w).Data)).To(ContainSubstring(`"slug":"site-update"`))
	})

	It("rejects an unknown category", func() {
		w := doJSON(router, http.MethodPost, "/articles", map[string]any{
			"title": "Site update", "body": "x", "category": "press",
		})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
