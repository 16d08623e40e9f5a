package http

import (
	"context"
	"time"

	"github.com/geo-lookup-proxy/internal/config"
	"github.com/geo-lookup-proxy/internal/delivery/http/handler"
	"github.com/geo-lookup-proxy/internal/delivery/http/middleware"
	"github.com/geo-lookup-proxy/internal/pkg/errors"
	"github.com/geo-lookup-proxy/internal/pkg/utils"
	"github.com/geo-lookup-proxy/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// HealthChecker - зависимость, проверяемая в /health (например Redis)
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	lookupHandler *handler.LookupHandler
	statsHandler  *handler.StatsHandler
	redisHealth   HealthChecker

	// requestsCtx - родитель UserContext всех запросов, отменяется в Shutdown
	requestsCtx    context.Context
	cancelRequests context.CancelFunc
}

// NewServer - создание нового HTTP сервера. redisHealth может быть nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	lookupHandler *handler.LookupHandler,
	statsHandler *handler.StatsHandler,
	redisHealth HealthChecker,
) *Server {
	// Таймаут записи должен покрывать таймаут upstream
	writeTimeout := cfg.GeoNames.RequestTimeout + 5*time.Second

	app := fiber.New(fiber.Config{
		AppName:               "Geo Lookup Proxy",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler(logger),
	})

	requestsCtx, cancelRequests := context.WithCancel(context.Background())

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		lookupHandler: lookupHandler,
		statsHandler:  statsHandler,
		redisHealth:   redisHealth,

		requestsCtx:    requestsCtx,
		cancelRequests: cancelRequests,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.RequestContext(s.requestsCtx))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Путь старого PHP скрипта, его вызывают уже выпущенные сборки приложения
	s.app.Get("/fetch.php", s.lookupHandler.Lookup)

	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)
	api.Get("/stats", s.statsHandler.GetStatistics)

	geo := api.Group("/geo")
	geo.Get("/", s.lookupHandler.Lookup)
	geo.Get("/countries", s.lookupHandler.GetCountries)
	geo.Get("/countries/:countryId/governorates", s.lookupHandler.GetGovernorates)
	geo.Get("/regions/:regionId/judiciaries", s.lookupHandler.GetJudiciaries)
}

// health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /api/v1/health [get]
func (s *Server) health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "healthy"}

	if s.redisHealth != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := s.redisHealth.Health(ctx); err != nil {
			s.logger.Warn("Redis health check failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Redis = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
		resp.Redis = "ok"
	}

	return c.JSON(resp)
}

// App - доступ к fiber.App (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера. Запросы, не успевшие завершиться
// до дедлайна ctx, получают отмену контекста и прерывают вызов GeoNames.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	defer s.cancelRequests()
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки роутинга и паники в формате ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := errors.ErrInternalServer

		if e, ok := err.(*fiber.Error); ok {
			appErr = errors.New(codeForStatus(e.Code), e.Message, e.Code)
		}

		if appErr.StatusCode >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", appErr.StatusCode),
				zap.Error(err),
			)
		}

		return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{Error: appErr})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return errors.ErrInvalidRequest.Code
	default:
		return errors.ErrInternalServer.Code
	}
}
