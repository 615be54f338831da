package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trend-herald/internal/auth"
	"trend-herald/internal/bot"
	"trend-herald/internal/cache"
	"trend-herald/internal/config"
	"trend-herald/internal/db"
	"trend-herald/internal/handler"
	"trend-herald/internal/job"
	"trend-herald/internal/provider"
	"trend-herald/internal/repository"
	"trend-herald/internal/service"
	"trend-herald/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initPostgresFunc         = db.InitPostgres
	initRedisFunc            = cache.InitRedis
	initTracerFunc           = tracing.InitTracer
	newThreadRepoFunc        = repository.NewThreadRepository
	newCoinGeckoProviderFunc = func(apiKey string, tracer trace.Tracer) *provider.CoinGeckoProvider {
		return provider.NewCoinGeckoProvider(apiKey, tracer)
	}
	newTrendingServiceFunc = service.NewTrendingService
	newAuthManagerFunc     = auth.NewManager
	newTwitterClientFunc   = provider.NewTwitterClient
	newPublishServiceFunc  = service.NewPublishService
	newNotifierFunc        = bot.NewNotifier
	newCycleRunnerFunc     = job.NewCycleRunner
	newOrchestratorFunc    = bot.NewOrchestrator
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Publish history is optional; without Postgres the bot still posts.
	var recorder *repository.ThreadRepository
	if db.Pool != nil {
		recorder = newThreadRepoFunc(db.Pool, tracer)
		if err := recorder.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Market data and enrichment
	cgProvider := newCoinGeckoProviderFunc(cfg.CoinGeckoAPIKey, tracer)
	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	trendingService := newTrendingServiceFunc(tracer, cgProvider, redisClient)

	// Authorization and publishing
	authManager := newAuthManagerFunc(cfg.TwitterClientID, cfg.TwitterClientSecret, cfg.CallbackURL, nil)
	twitterClient := newTwitterClientFunc(authManager.APIClient(), tracer)
	publishService := newPublishServiceFunc(tracer, twitterClient)

	// Schedule, armed by the first completed authorization
	runner := newCycleRunnerFunc(tracer, trendingService, publishService, cfg.CycleIntervalHours)
	if recorder != nil {
		runner.WithRecorder(recorder)
	}
	if notifier := newNotifierFunc(cfg.TelegramBotToken, cfg.TelegramChatID); notifier != nil {
		runner.WithNotifier(notifier)
	}
	orchestrator := newOrchestratorFunc(ctx, runner)

	// Routes
	var history handler.ThreadHistory
	if recorder != nil {
		history = recorder
	}
	h := newHandlerFunc(tracer, authManager, orchestrator, cgProvider, history)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("trend-herald"))
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Printf("Listening on %s, visit / to authorize", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
