package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/accessibility-microservice/internal/config"
	"github.com/accessibility-microservice/internal/delivery/http/handler"
	"github.com/accessibility-microservice/internal/delivery/http/middleware"
	"github.com/accessibility-microservice/internal/metrics"
	"github.com/accessibility-microservice/internal/pkg/utils"
)

// HealthCheck - проверка внешней зависимости для /health
type HealthCheck func(ctx context.Context) error

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	refreshHandler    *handler.RefreshHandler
	populationHandler *handler.PopulationHandler
	historyHandler    *handler.HistoryHandler // nil без БД

	checks map[string]HealthCheck
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	refreshHandler *handler.RefreshHandler,
	populationHandler *handler.PopulationHandler,
	historyHandler *handler.HistoryHandler,
	checks map[string]HealthCheck,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Accessibility Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // цикл обновления ждет сервис анализа
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:               app,
		config:            cfg,
		logger:            logger,
		refreshHandler:    refreshHandler,
		populationHandler: populationHandler,
		historyHandler:    historyHandler,
		checks:            checks,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	// Refresh routes
	api.Post("/refresh", s.refreshHandler.Refresh)
	api.Get("/state", s.refreshHandler.GetState)
	api.Get("/scores", s.refreshHandler.GetScores)
	api.Get("/legend", s.refreshHandler.GetLegend)

	// Parameters
	api.Get("/parameters", s.refreshHandler.GetParameters)
	api.Put("/parameters", s.refreshHandler.UpdateParameters)

	// Populations
	api.Get("/populations", s.populationHandler.ListPopulations)
	api.Get("/populations/:key.geojson", s.populationHandler.GetLayer)
	api.Post("/populations/:key/retry", s.populationHandler.RetryPopulation)

	if s.historyHandler != nil {
		api.Get("/history", s.historyHandler.ListHistory)
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := make(fiber.Map, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"time":         time.Now(),
		"dependencies": deps,
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в хендлерах, и паники после Recovery
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			status = fe.Code
		}

		log := logger.Warn
		if status >= fiber.StatusInternalServerError {
			log = logger.Error
		}
		log("HTTP Error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err))

		return utils.SendError(c, err)
	}
}
