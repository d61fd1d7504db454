package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/http/middleware"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
)

const (
	needID    = "65f1c2a9b4d3e2f1a0b9c8d1"
	pollID    = "65f1c2a9b4d3e2f1a0b9c8d2"
	optionA   = "65f1c2a9b4d3e2f1a0b9c8a1"
	optionB   = "65f1c2a9b4d3e2f1a0b9c8b1"
	messageID = "65f1c2a9b4d3e2f1a0b9c8d3"
	userID    = "65f1c2a9b4d3e2f1a0b9c8e1"
	articleID = "65f1c2a9b4d3e2f1a0b9c8f1"
	videoID   = "65f1c2a9b4d3e2f1a0b9c8f2"
	faqID     = "65f1c2a9b4d3e2f1a0b9c8f3"
)

// newRouter returns a test engine with the error renderer installed.
func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Errors())
	return r
}

// asUser stands in for RequireAuth in handler tests.
func asUser(id string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := &middleware.Principal{ID: id, Name: "Test User", Roles: roles}
		c.Request = c.Request.WithContext(middleware.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(w *httptest.ResponseRecorder) envelope {
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return env
}

type mockPollService struct {
	createFn     func(ctx context.Context, in service.CreatePollInput) (*model.Poll, error)
	getFn        func(ctx context.Context, id string) (*model.Poll, error)
	listByNeedFn func(ctx context.Context, needID string) ([]model.Poll, error)
	voteFn       func(ctx context.Context, pollID, optionID, voterID string) (*model.Poll, error)
}

func (m *mockPollService) Create(ctx context.Context, in service.CreatePollInput) (*model.Poll, error) {
	return m.createFn(ctx, in)
}

func (m *mockPollService) Get(ctx context.Context, id string) (*model.Poll, error) {
	return m.getFn(ctx, id)
}

func (m *mockPollService) ListByNeed(ctx context.Context, needID string) ([]model.Poll, error) {
	return m.listByNeedFn(ctx, needID)
}

func (m *mockPollService) Vote(ctx context.Context, pollID, optionID, voterID string) (*model.Poll, error) {
	return m.voteFn(ctx, pollID, optionID, voterID)
}

type mockMessageService struct {
	createFn     func(ctx context.Context, in service.CreateMessageInput) (*model.SupporterMessage, error)
	listByNeedFn func(ctx context.Context, needID string) ([]model.MessageThread, error)
	toggleLikeFn func(ctx context.Context, messageID, actorID string) (service.LikeResult, error)
}

func (m *mockMessageService) Create(ctx context.Context, in service.CreateMessageInput) (*model.SupporterMessage, error) {
	return m.createFn(ctx, in)
}

func (m *mockMessageService) ListByNeed(ctx context.Context, needID string) ([]model.MessageThread, error) {
	return m.listByNeedFn(ctx, needID)
}

func (m *mockMessageService) ToggleLike(ctx context.Context, messageID, actorID string) (service.LikeResult, error) {
	return m.toggleLikeFn(ctx, messageID, actorID)
}

type mockFeaturedItemService struct {
	listFn    func(ctx context.Context) ([]model.FeaturedItem, error)
	replaceFn func(ctx context.Context, items []service.FeaturedItemInput) ([]model.FeaturedItem, error)
}

func (m *mockFeaturedItemService) List(ctx context.Context) ([]model.FeaturedItem, error) {
	return m.listFn(ctx)
}

func (m *mockFeaturedItemService) Replace(ctx context.Context, items []service.FeaturedItemInput) ([]model.FeaturedItem, error) {
	return m.replaceFn(ctx, items)
}

// memFaqService keeps faqs in memory so handler flows can be exercised end to end.
type memFaqService struct {
	faqs []model.Faq
}

func (m *memFaqService) ListActive(context.Context) ([]model.Faq, error) {
	out := []model.Faq{}
	for _, f := range m.faqs {
		if f.IsActive {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFaqService) ListAll(context.Context) ([]model.Faq, error) {
	return append([]model.Faq{}, m.faqs...), nil
}

func (m *memFaqService) Create(_ context.Context, in service.CreateFaqInput) (*model.Faq, error) {
	faq := model.Faq{ID: faqID, Question: in.Question, Answer: in.Answer, IsActive: true}
	if in.IsActive != nil {
		faq.IsActive = *in.IsActive
	}
	if in.Order != nil {
		faq.Order = *in.Order
	}
	m.faqs = append(m.faqs, faq)
	return &faq, nil
}

func (m *memFaqService) Update(_ context.Context, id string, in service.UpdateFaqInput) (*model.Faq, error) {
	for i := range m.faqs {
		if m.faqs[i].ID == id {
			if in.IsActive != nil {
				m.faqs[i].IsActive = *in.IsActive
			}
			if in.Question != nil {
				m.faqs[i].Question = *in.Question
			}
			f := m.faqs[i]
			return &f, nil
		}
	}
	return nil, apperr.NotFound("faq not found")
}

func (m *memFaqService) Delete(_ context.Context, id string) error {
	for i := range m.faqs {
		if m.faqs[i].ID == id {
			m.faqs = append(m.faqs[:i], m.faqs[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("faq not found")
}

type mockContentService struct {
	service.ContentService
	searchFn func(ctx context.Context, q string, limit int) ([]model.Article, error)
	createFn func(ctx context.Context, in service.ArticleInput) (*model.Article, error)
}

func (m *mockContentService) SearchArticles(ctx context.Context, q string, limit int) ([]model.Article, error) {
	return m.searchFn(ctx, q, limit)
}

func (m *mockContentService) CreateArticle(ctx context.Context, in service.ArticleInput) (*model.Article, error) {
	return m.createFn(ctx, in)
}
