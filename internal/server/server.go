// Package server contains the HTTP and WebSocket handlers of the blog API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	_ "bloghub/docs" // swagger docs
	"bloghub/internal/auth"
	"bloghub/internal/cache"
	"bloghub/internal/config"
	"bloghub/internal/database"
	"bloghub/internal/featureflags"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/notifications"
	"bloghub/internal/repository"
	"bloghub/internal/service"
	"bloghub/internal/validation"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultOrigins = "http://localhost:5173,http://localhost:3000"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tokens         *auth.TokenManager
	authLimiter    *middleware.RateLimiter
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	accountService *service.AccountService
	postService    *service.PostService
	flags          *featureflags.Manager
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, auth.ErrNoSecret
	}

	validate := validation.New()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	usernames := cache.New(redisClient, "account_username", cfg.CacheTTL)
	accountRepo := repository.NewAccountRepository(db, usernames)
	postRepo := repository.NewPostRepository(db)

	hub := notifications.NewHub()
	notifier := notifications.NewNotifier(redisClient, hub)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	if raw := flags.Raw(); len(raw) > 0 {
		middleware.Logger.Info("feature flags loaded", slog.Any("flags", raw))
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("bloghub"),
		shutdownCtx:    ctx,
		shutdownFn:     cancel,
		tokens:         tokens,
		authLimiter:    middleware.NewRateLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.FailOpen),
		notifier:       notifier,
		hub:            hub,
		accountService: service.NewAccountService(accountRepo, tokens, validate, cfg.BcryptCost),
		postService:    service.NewPostService(postRepo, accountRepo, validate, notifier),
		flags:          flags,
	}, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	bodyLimit := s.config.BodyKB * 1024
	if bodyLimit <= 0 {
		bodyLimit = 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "bloghub",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escape handlers, including unknown routes and panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Message: "Not found", Code: models.CodeNotFound})
		case fiber.StatusRequestEntityTooLarge:
			return c.Status(fe.Code).JSON(models.ErrorResponse{Message: "Request body too large", Code: models.CodeValidation})
		}
		if fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(models.ErrorResponse{Message: fe.Message})
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
		slog.String("path", c.Path()), slog.String("error", err.Error()))
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Message: "Internal server error",
		Code:    models.CodeInternal,
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Spans first so the context middleware can pick up the trace id
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.Origins
	if origins == "" {
		origins = defaultOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Account routes
	app.Post("/signup", s.authLimiter.Handler("signup"), s.Signup)
	app.Post("/signin", s.authLimiter.Handler("signin"), s.Signin)

	// Post routes
	requireAuth := middleware.AuthRequired(s.tokens)
	app.Post("/blog", requireAuth, s.CreatePost)
	app.Get("/blogs", requireAuth, s.ListPosts)
	app.Get("/blogs/:username", requireAuth, s.ListPostsByUsername)
	app.Put("/blog/edit/:id", requireAuth, s.UpdatePost)
	app.Delete("/blog/:id", requireAuth, s.DeletePost)

	// Live feed
	app.Get("/ws/feed", middleware.WebSocketAuthRequired(s.tokens),
		s.requireFeature(featureflags.LiveFeed), requireUpgrade, s.FeedHandler())
}

// Start wires the live feed and listens until Shutdown is called.
func (s *Server) Start() error {
	app := s.App()

	if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
		middleware.Logger.Warn("live feed wiring failed, events stay local", slog.String("error", err.Error()))
	}

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the feed subscriber
	s.shutdownFn()

	// Feed clients first; their write pumps send the going-away frames.
	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down feed hub", slog.String("error", err.Error()))
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports 503 when the database, or a configured Redis, does not answer.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
