package main

// @title Accessibility Microservice API
// @version 1.0.0
// @description Оценка доступности городских объектов общественным транспортом. Сервис запрашивает поверхность времени в пути у внешнего сервиса анализа (OTP Analyst) и считает долю объектов каждой категории, достижимых в пределах двух порогов.
// @description
// @description Основные возможности:
// @description - Запуск цикла обновления с изменением параметров поездки
// @description - Оценки по категориям и легенда поверхности
// @description - Слои категорий в GeoJSON
// @description - История обновлений

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "github.com/accessibility-microservice/docs"
	"github.com/accessibility-microservice/internal/config"
	httpDelivery "github.com/accessibility-microservice/internal/delivery/http"
	"github.com/accessibility-microservice/internal/delivery/http/handler"
	"github.com/accessibility-microservice/internal/domain/repository"
	"github.com/accessibility-microservice/internal/infrastructure/analyst"
	"github.com/accessibility-microservice/internal/infrastructure/popsource"
	"github.com/accessibility-microservice/internal/pkg/logger"
	"github.com/accessibility-microservice/internal/repository/cache"
	"github.com/accessibility-microservice/internal/repository/postgres"
	redisRepo "github.com/accessibility-microservice/internal/repository/redis"
	"github.com/accessibility-microservice/internal/usecase"
	"github.com/accessibility-microservice/internal/worker"
	"github.com/accessibility-microservice/internal/worker/refresh"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Accessibility Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("analyst", cfg.Analyst.BaseURL),
		zap.Int("populations", len(cfg.Populations)),
	)

	checks := make(map[string]httpDelivery.HealthCheck)

	// 3. Optional PostgreSQL (история обновлений)
	var history repository.HistoryRepository
	if cfg.Database.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		history = postgres.NewHistoryRepository(db, log)
		checks["postgres"] = db.Health
	}

	// 4. Optional Redis (кеш результата и стримы)
	var (
		cacheRepo  repository.CacheRepository
		streamRepo repository.StreamRepository
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		cacheRepo = cache.NewCacheRepository(redisClient)
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
		checks["redis"] = redisClient.Health
	}

	// 5. Presentation sinks
	state := usecase.NewPresentationState()
	sink := usecase.NewPresentationFanout(
		state,
		usecase.NewSnapshotPublisher(cacheRepo, streamRepo, history, cfg.Cache.PresentationTTL, log),
	)

	// 6. Populations - загрузка идет в фоне, обновление использует уже загруженные
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Sources.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Sources.RateLimit), 1)
	}
	populations := usecase.NewPopulationSet(
		popsource.NewSource(cfg.Sources.FetchTimeout, limiter, log),
		sink,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, spec := range cfg.Populations {
		if _, err := populations.Register(ctx, spec); err != nil {
			log.Fatal("Failed to register population", zap.String("category", spec.Key), zap.Error(err))
		}
	}

	// 7. Refresh controller
	params := usecase.NewParameterStore(cfg.Defaults.Parameters())
	controller := usecase.NewRefreshController(
		params,
		populations,
		analyst.NewClient(&cfg.Analyst, log),
		usecase.NewScoringEngine(),
		sink,
		log,
	)

	go func() {
		if err := controller.Start(ctx); err != nil {
			log.Warn("Initial refresh failed", zap.Error(err))
		}
	}()

	// 8. Stream worker в том же процессе использует тот же контроллер
	var workerManager *worker.WorkerManager
	if cfg.Worker.Enabled && streamRepo != nil {
		workerManager = worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
		workerManager.Register(refresh.NewRefreshWorker(
			streamRepo,
			controller,
			cfg.Worker.ConsumerGroup,
			cfg.Worker.MaxBatchSize,
			cfg.Worker.PollInterval,
			log,
		))
		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 9. HTTP handlers and server
	var historyHandler *handler.HistoryHandler
	if history != nil {
		historyHandler = handler.NewHistoryHandler(history, log)
	}

	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewRefreshHandler(controller, params, state, cacheRepo, log),
		handler.NewPopulationHandler(populations, params, state, log),
		historyHandler,
		checks,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancel()

	if workerManager != nil {
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
