package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/accessibility-microservice/internal/config"
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

// Отдельный процесс без HTTP: обновления приходят только из stream:accessibility:refresh,
// результаты уходят в Redis и, если включена, в историю PostgreSQL.
func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Accessibility Refresh Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_batch_size", cfg.Worker.MaxBatchSize),
		zap.Duration("poll_interval", cfg.Worker.PollInterval))

	// 3. Connect to Redis - обязателен для воркера
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 4. Optional PostgreSQL
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
	}

	// 5. Initialize repositories and use cases
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	publisher := usecase.NewSnapshotPublisher(
		cache.NewCacheRepository(redisClient),
		streamRepo,
		history,
		cfg.Cache.PresentationTTL,
		log,
	)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Sources.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Sources.RateLimit), 1)
	}
	populations := usecase.NewPopulationSet(
		popsource.NewSource(cfg.Sources.FetchTimeout, limiter, log),
		publisher,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Воркер начинает читать стрим только после загрузки категорий,
	// иначе первые оценки будут пустыми
	for _, spec := range cfg.Populations {
		load, err := populations.Register(ctx, spec)
		if err != nil {
			log.Fatal("Failed to register population", zap.String("category", spec.Key), zap.Error(err))
		}
		if _, err := load.Wait(ctx); err != nil {
			log.Warn("Population unavailable", zap.String("category", spec.Key), zap.Error(err))
		}
	}

	controller := usecase.NewRefreshController(
		usecase.NewParameterStore(cfg.Defaults.Parameters()),
		populations,
		analyst.NewClient(&cfg.Analyst, log),
		usecase.NewScoringEngine(),
		publisher,
		log,
	)

	// 6. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
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

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case <-workerManager.Done():
		// Воркер вышел сам, например не смог создать consumer group
		for name, err := range workerManager.Failed() {
			log.Error("Worker exited", zap.String("name", name), zap.Error(err))
		}
		cancel()
		os.Exit(1)
	}

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
