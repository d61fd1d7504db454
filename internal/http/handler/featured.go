package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/dto"
	"needsnet.app/api/internal/model"
	"needsnet.app/api/internal/service"
)

type FeaturedItemHandler struct {
	featured service.FeaturedItemService
}

func NewFeaturedItemHandler(featured service.FeaturedItemService) *FeaturedItemHandler {
	return &FeaturedItemHandler{featured: featured}
}

func (h *FeaturedItemHandler) List(c *gin.Context) {
	items, err := h.featured.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respondData(c, http.StatusOK, items)
}

func (h *FeaturedItemHandler) Replace(c *gin.Context) {
	var req dto.ReplaceFeaturedItemsRequest
	if !bindJSON(c, &req) {
		return
	}

	inputs := make([]service.FeaturedItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, service.FeaturedItemInput{
			Order:    item.Order,
			ItemID:   item.Item,
			ItemType: model.ItemType(item.ItemType),
		})
	}

	items, err := h.featured.Replace(c.Request.Context(), inputs)
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "featured items updated", items)
}
