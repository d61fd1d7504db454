package service_test

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
	"needsnet.app/api/internal/store"
)

type stubVideoStore struct {
	created []model.Video
	slugs   []string
}

func (s *stubVideoStore) Create(_ context.Context, v *model.Video) error {
	s.created = append(s.created, *v)
	return nil
}

func (s *stubVideoStore) List(context.Context) ([]model.Video, error) { return s.created, nil }

func (s *stubVideoStore) SlugsWithPrefix(_ context.Context, prefix string) ([]string, error) {
	out := []string{}
	for _, slug := range s.slugs {
		if strings.HasPrefix(slug, prefix) {
			out = append(out, slug)
		}
	}
	return out, nil
}

type stubGalleryStore struct {
	created []model.Gallery
}

func (s *stubGalleryStore) Create(_ context.Context, g *model.Gallery) error {
	s.created = append(s.created, *g)
	return nil
}

func (s *stubGalleryStore) List(context.Context) ([]model.Gallery, error) { return s.created, nil }

func (s *stubGalleryStore) SlugsWithPrefix(context.Context, string) ([]string, error) { return nil, nil }

var _ = Describe("ContentService", func() {
	var (
		ctx       context.Context
		clock     *clockwork.FakeClock
		articles  *mockArticleStore
		videos    *stubVideoStore
		galleries *stubGalleryStore
		index     *mockArticleIndex
		svc       service.ContentService
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
		articles = &mockArticleStore{}
		videos = &stubVideoStore{}
		galleries = &stubGalleryStore{}
		index = &mockArticleIndex{}
	})

	JustBeforeEach(func() {
		svc = service.NewContentService(articles, videos, galleries, index, clock)
	})

	Describe("CreateArticle", func() {
		It("derives an accent-free slug and indexes the article", func() {
			article, err := svc.CreateArticle(ctx, service.ArticleInput{
				Title:     "Éducation pour tous",
				Category:  model.ArticleCategoryBlog,
				Tags:      []string{"School", " school", ""},
				Published: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(article.Slug).To(Equal("education-pour-tous"))
			Expect(article.Tags).To(Equal([]string{"school"}))
			Expect(article.PublishedAt).NotTo(BeNil())
			Expect(index.upserted).To(HaveLen(1))
		})

		It("suffixes the slug when it is taken", func() {
			articles.slugsWithPrefixFn = func(context.Context, string) ([]string, error) {
				return []string{"water-access", "water-access-2"}, nil
			}

			article, err := svc.CreateArticle(ctx, service.ArticleInput{Title: "Water access"})

			Expect(err).NotTo(HaveOccurred())
			Expect(article.Slug).To(Equal("water-access-3"))
		})

		It("rejects titles without letters or digits", func() {
			_, err := svc.CreateArticle(ctx, service.ArticleInput{Title: "!!!"})

			Expect(apperr.IsKind(err, apperr.KindValidation)).To(BeTrue())
		})

		It("maps a slug race to a conflict", func() {
			articles.createFn = func(context.Context, *model.Article) error { return store.ErrDuplicate }

			_, err := svc.CreateArticle(ctx, service.ArticleInput{Title: "Race"})

			Expect(apperr.IsKind(err, apperr.KindConflict)).To(BeTrue())
		})

		It("succeeds even if indexing fails", func() {
			index.err = errors.New("typesense down")

			_, err := svc.CreateArticle(ctx, service.ArticleInput{Title: "Still saved"})

			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("UpdateArticle", func() {
		var stored model.Article

		BeforeEach(func() {
			stored = model.Article{ID: "a1", Title: "Old", Slug: "old", Category: model.ArticleCategoryNews}
			articles.getByIDFn = func(context.Context, string) (*model.Article, error) {
				c := stored
				return &c, nil
			}
			articles.updateFn = func(_ context.Context, a *model.Article) error {
				stored = *a
				return nil
			}
		})

		It("re-slugs on a title change and stamps the first publication", func() {
			published := true
			title := "New title"

			article, err := svc.UpdateArticle(ctx, "a1", service.ArticlePatch{Title: &title, Published: &published})

			Expect(err).NotTo(HaveOccurred())
			Expect(article.Slug).To(Equal("new-title"))
			Expect(*article.PublishedAt).To(Equal(clock.Now().UTC()))
			Expect(stored.Category).To(Equal(model.ArticleCategoryNews))
		})

		It("returns not found for an unknown article", func() {
			articles.getByIDFn = nil

			_, err := svc.UpdateArticle(ctx, "ghost", service.ArticlePatch{})

			Expect(apperr.IsKind(err, apperr.KindNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteArticle", func() {
		It("removes the article from the index", func() {
			Expect(svc.DeleteArticle(ctx, "a1")).To(Succeed())
			Expect(index.deleted).To(ConsistOf("a1"))
		})
	})

	Describe("SearchArticles", func() {
		It("passes the trimmed query to the index", func() {
			index.searchFn = func(_ context.Context, q string, limit int) ([]model.Article, error) {
				Expect(q).To(Equal("water"))
				Expect(limit).To(Equal(5))
				return []model.Article{{ID: "a1"}}, nil
			}

			found, err := svc.SearchArticles(ctx, "  water ", 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
		})

		It("reports unavailable when the index errors", func() {
			index.searchFn = func(context.Context, string, int) ([]model.Article, error) {
				return nil, errors.New("timeout")
			}

			_, err := svc.SearchArticles(ctx, "water", 5)

			Expect(apperr.IsKind(err, apperr.KindUnavailable)).To(BeTrue())
		})

		It("reports unavailable when search is not configured", func() {
			svc = service.NewContentService(articles, videos, galleries, nil, clock)

			_, err := svc.SearchArticles(ctx, "water", 5)

			Expect(apperr.IsKind(err, apperr.KindUnavailable)).To(BeTrue())
		})
	})

	Describe("videos and galleries", func() {
		It("creates a video with a unique slug", func() {
			videos.slugs = []string{"launch-day"}

			video, err := svc.CreateVideo(ctx, service.VideoInput{Title: "Launch day", URL: "https://video.example/1"})

			Expect(err).NotTo(HaveOccurred())
			Expect(video.Slug).To(Equal("launch-day-2"))
		})

		It("creates a gallery with an empty image list by default", func() {
			gallery, err := svc.CreateGallery(ctx, service.GalleryInput{Title: "Site visit"})

			Expect(err).NotTo(HaveOccurred())
			Expect(gallery.Images).NotTo(BeNil())
			Expect(gallery.Images).To(BeEmpty())
		})
	})
})
