package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/service"
)

type FaqHandler struct {
	faqs service.FaqService
}

func NewFaqHandler(faqs service.FaqService) *FaqHandler {
	return &FaqHandler{faqs: faqs}
}

// ListClient serves the public FAQ page: active entries only.
func (h *FaqHandler) ListClient(c *gin.Context) {
	faqs, err := h.faqs.ListActive(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, faqs)
}

func (h *FaqHandler) ListAll(c *gin.Context) {
	faqs, err := h.faqs.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, faqs)
}

func (h *FaqHandler) Create(c *gin.Context) {
	var req dto.CreateFaqRequest
	if !bindJSON(c, &req) {
		return
	}

	faq, err := h.faqs.Create(c.Request.Context(), service.CreateFaqInput{
		Question: req.Question,
		Answer:   req.Answer,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "faq created", faq)
}

func (h *FaqHandler) Update(c *gin.Context) {
	var uri dto.FaqURI
	if !bindURI(c, &uri) {
		return
	}
	var req dto.UpdateFaqRequest
	if !bindJSON(c, &req) {
		return
	}

	faq, err := h.faqs.Update(c.Request.Context(), uri.FaqID, service.UpdateFaqInput{
		Question: req.Question,
		Answer:   req.Answer,
		Order:    req.Order,
		IsActive: req.IsActive,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "faq updated", faq)
}

func (h *FaqHandler) Delete(c *gin.Context) {
	var uri dto.FaqURI
	if !bindURI(c, &uri) {
		return
	}

	if err := h.faqs.Delete(c.Request.Context(), uri.FaqID); err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "faq deleted", nil)
}
