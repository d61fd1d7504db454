package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
)

type NeedHandler struct {
	needs service.NeedService
}

func NewNeedHandler(needs service.NeedService) *NeedHandler {
	return &NeedHandler{needs: needs}
}

func (h *NeedHandler) Create(c *gin.Context) {
	var req dto.CreateNeedRequest
	if !bindJSON(c, &req) {
		return
	}
	p := principal(c)
	if p == nil {
		return
	}

	need, err := h.needs.Create(c.Request.Context(), service.CreateNeedInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Author:      p.User(),
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "need created", need)
}

func (h *NeedHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}

	limit, offset := q.Page()
	needs, err := h.needs.ListOpen(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, needs)
}

func (h *NeedHandler) Get(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}

	need, err := h.needs.Get(c.Request.Context(), uri.NeedID)
	if err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, need)
}

func (h *NeedHandler) UpdateStatus(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}
	var req dto.UpdateNeedStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	need, err := h.needs.UpdateStatus(c.Request.Context(), uri.NeedID, model.NeedStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "need status updated", need)
}
