package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"needsnet.app/api/internal/apperr"
	"needsnet.app/api/internal/http/handler"
	"needsnet.app/api/internal/http/middleware"
	"needsnet.app/api/internal/service"
)

type RouterConfig struct {
	TraceHeaderName string
	Tokens          *middleware.Tokens
	Clock           clockwork.Clock
	// Readiness lists the dependencies /health/ready pings.
	Readiness map[string]handler.Pinger
}

// Guards bundles the auth middleware each route group picks from.
type Guards struct {
	Authenticated gin.HandlerFunc
	Optional      gin.HandlerFunc
	Admin         []gin.HandlerFunc
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.Use(middleware.RequestID(cfg.TraceHeaderName))
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Errors())

	// Unmatched requests get the same {"message"} body as handler errors.
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperr.NotFound("route not found"))
	})
	router.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"message": "method not allowed"})
	})

	health := handler.NewHealthHandler(cfg.Readiness)
	router.GET("/health", health.Live)
	router.GET("/health/ready", health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticated := middleware.RequireAuth(cfg.Tokens)
	guards := Guards{
		Authenticated: authenticated,
		Optional:      middleware.OptionalAuth(cfg.Tokens),
		Admin:         []gin.HandlerFunc{authenticated, middleware.RequireRoles(middleware.AdminRoles...)},
	}

	v1 := router.Group("/api/v1")
	{
		FeaturedItemRouter(v1.Group("/featured-items"), handler.NewFeaturedItemHandler(services.FeaturedItems()), guards)
		FaqRouter(v1.Group("/faqs"), handler.NewFaqHandler(services.Faqs()), guards)

		NeedRouter(v1, NeedHandlers{
			Needs:    handler.NewNeedHandler(services.Needs()),
			Polls:    handler.NewPollHandler(services.Polls(), cfg.Clock),
			Messages: handler.NewMessageHandler(services.Messages()),
		}, guards)

		ContentRouter(v1, handler.NewContentHandler(services.Content()), guards)
		DashboardRouter(v1.Group("/dashboard"), handler.NewDashboardHandler(services.Dashboard()), guards)
		SchemaRouter(v1.Group("/schemas"), handler.NewSchemaHandler())
	}
}
