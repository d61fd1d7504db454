package router

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/handler"
)

// FaqRouter sets up FAQ routes
// - /faqs/client is public and only returns active entries
// - everything else is admin only
func FaqRouter(rg *gin.RouterGroup, h *handler.FaqHandler, guards Guards) {
	rg.GET("/client", h.ListClient)

	admin := rg.Group("")
	admin.Use(guards.Admin...)
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Create)
		admin.PATCH("/:faqId", h.Update)
		admin.DELETE("/:faqId", h.Delete)
	}
}
