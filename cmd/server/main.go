package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"needsnet.app/api/common/arangodb"
	"needsnet.app/api/common/id"
	"needsnet.app/api/common/logger"
	"needsnet.app/api/common/otel"
	"needsnet.app/api/core/config"
	"needsnet.app/api/internal/http/handler"
	"needsnet.app/api/internal/http/middleware"
	httprouter "needsnet.app/api/internal/http/router"
	"needsnet.app/api/internal/http/validation"
	"needsnet.app/api/internal/queue"
	"needsnet.app/api/internal/search"
	"needsnet.app/api/internal/service"
	"needsnet.app/api/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "needsnet api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	if err := validation.Setup(); err != nil {
		slog.ErrorContext(ctx, "failed to register validators", "error", err)
		os.Exit(1)
	}

	db, err := arangodb.New(ctx, arangodb.Config{
		URL:      cfg.ArangoDB.URL,
		Username: cfg.ArangoDB.Username,
		Password: cfg.ArangoDB.Password,
		Database: cfg.ArangoDB.Database,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create arangodb client", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureDatabase(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure arangodb database", "error", err)
		os.Exit(1)
	}
	if err := db.EnsureCollections(ctx, store.CollectionSpecs()); err != nil {
		slog.ErrorContext(ctx, "failed to ensure arangodb collections", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "arangodb connected", "database", cfg.ArangoDB.Database)

	readiness := map[string]handler.Pinger{"arangodb": db}

	var producer queue.Producer = queue.NoopProducer{}
	if cfg.Activity.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Activity.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
			os.Exit(1)
		}

		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Activity.Stream)

		producer = queue.NewRedisProducer(redisClient, cfg.Activity.Stream, slog.Default())
		readiness["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	} else {
		slog.WarnContext(ctx, "REDIS_URL not set, activity events will be dropped")
	}
	defer producer.Close()

	var index search.ArticleIndex
	if cfg.Typesense.Enabled() {
		index = search.NewArticleIndex(search.Config{
			URL:        cfg.Typesense.URL,
			APIKey:     cfg.Typesense.APIKey,
			Collection: cfg.Typesense.ArticlesCollection,
		})
		if err := index.EnsureCollection(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to ensure typesense collection", "error", err)
			os.Exit(1)
		}
		slog.InfoContext(ctx, "typesense connected", "collection", cfg.Typesense.ArticlesCollection)
	} else {
		slog.WarnContext(ctx, "typesense not configured, article search disabled")
	}

	services := service.NewServices(store.NewStores(db), producer, index, clockwork.NewRealClock())
	tokens := middleware.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, tokens, readiness)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, tokens *middleware.Tokens, readiness map[string]handler.Pinger) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → request logging in SetupRoutes
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		TraceHeaderName: cfg.TraceHeaderName,
		Tokens:          tokens,
		Clock:           clockwork.NewRealClock(),
		Readiness:       readiness,
	})

	return router
}

const banner = `
███╗   ██╗███████╗███████╗██████╗ ███████╗███╗   ██╗███████╗████████╗     █████╗ ██████╗ ██╗
████╗  ██║██╔════╝██╔════╝██╔══██╗██╔════╝████╗  ██║██╔════╝╚══██╔══╝    ██╔══██╗██╔══██╗██║
██╔██╗ ██║█████╗  █████╗  ██║  ██║███████╗██╔██╗ ██║█████╗     ██║       ███████║██████╔╝██║
██║╚██╗██║██╔══╝  ██╔══╝  ██║  ██║╚════██║██║╚██╗██║██╔══╝     ██║       ██╔══██║██╔═══╝ ██║
██║ ╚████║███████╗███████╗██████╔╝███████║██║ ╚████║███████╗   ██║       ██║  ██║██║     ██║
╚═╝  ╚═══╝╚══════╝╚══════╝╚═════╝ ╚══════╝╚═╝  ╚═══╝╚══════╝   ╚═╝       ╚═╝  ╚═╝╚═╝     ╚═╝
`
