package router

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/handler"
)

func DashboardRouter(rg *gin.RouterGroup, h *handler.DashboardHandler, guards Guards) {
	rg.Use(guards.Admin...)
	rg.GET("/stats", h.Stats)
	rg.GET("/needs/:needId/word-cloud", h.WordCloud)
}
