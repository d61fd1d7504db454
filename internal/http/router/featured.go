package router

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/handler"
)

func FeaturedItemRouter(rg *gin.RouterGroup, h *handler.FeaturedItemHandler, guards Guards) {
	rg.GET("", h.List)
	rg.PUT("", append(guards.Admin, h.Replace)...)
}
