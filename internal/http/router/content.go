package router

import (
	"github.com/gin-gonic/gin"

	"needsnet.app/api/internal/http/handler"
)

func ContentRouter(rg *gin.RouterGroup, h *handler.ContentHandler, guards Guards) {
	articles := rg.Group("/articles")
	{
		articles.GET("", h.ListArticles)
		articles.GET("/search", h.SearchArticles)
		articles.GET("/:slug", h.GetArticle)
		articles.POST("", append(guards.Admin, h.CreateArticle)...)
		articles.PATCH("/:articleId", append(guards.Admin, h.UpdateArticle)...)
		articles.DELETE("/:articleId", append(guards.Admin, h.DeleteArticle)...)
	}

	rg.GET("/videos", h.ListVideos)
	rg.POST("/videos", append(guards.Admin, h.CreateVideo)...)

	rg.GET("/galleries", h.ListGalleries)
	rg.POST("/galleries", append(guards.Admin, h.CreateGallery)...)
}
