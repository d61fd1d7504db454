package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, stats)
}

func (h *DashboardHandler) WordCloud(c *gin.Context) {
	var uri dto.NeedURI
	if !bindURI(c, &uri) {
		return
	}
	var q dto.WordCloudQuery
	if !bindQuery(c, &q) {
		return
	}

	terms, err := h.dashboard.WordCloud(c.Request.Context(), uri.NeedID, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, terms)
}
