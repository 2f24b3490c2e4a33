// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"driftboard/internal/cache"
	"driftboard/internal/config"
	"driftboard/internal/database"
	"driftboard/internal/featureflags"
	"driftboard/internal/middleware"
	"driftboard/internal/models"
	"driftboard/internal/preview"
	"driftboard/internal/ratelimit"
	"driftboard/internal/repository"
	"driftboard/internal/search"
	"driftboard/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limiter        *ratelimit.Limiter
	featureFlags   *featureflags.Manager

	userRepo    repository.UserRepository
	boardRepo   repository.BoardRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository

	userService    *service.UserService
	boardService   *service.BoardService
	feedService    *service.FeedService
	postService    *service.PostService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	prom := middleware.InitMetrics("driftboard-api")

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		limiter:        ratelimit.NewLimiter(30 * time.Minute),
		featureFlags:   flags,
		userRepo:       userRepo,
		boardRepo:      boardRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
	}

	index := search.NewIndex(db, flags)
	fetcher := preview.NewHTTPFetcher(5 * time.Second)

	s.userService = service.NewUserService(userRepo, cfg.JWTSecret)
	s.boardService = service.NewBoardService(boardRepo)
	s.feedService = service.NewFeedService(boardRepo, postRepo, index)
	s.postService = service.NewPostService(postRepo, boardRepo, userRepo, fetcher)
	s.commentService = service.NewCommentService(commentRepo, postRepo, userRepo)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS runs before anything that can short-circuit so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Driftboard Metrics Dashboard",
	}))

	window := time.Duration(s.config.RateLimitWindowSec) * time.Second

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	// Public board and post routes. OptionalAuth resolves the viewer for
	// liked annotation and view dedup without requiring a token.
	boards := api.Group("/boards")
	boards.Get("/", s.GetBoards)
	boards.Get("/:slug/posts", middleware.OptionalAuth, s.searchRateLimit(window), s.GetBoardPosts)
	boards.Get("/:slug", s.GetBoard)

	posts := api.Group("/posts")
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", middleware.OptionalAuth, s.GetPost)

	// Open Graph preview resolver for the composer UI.
	api.Get("/utils/og-preview", s.GetLinkPreview)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)
	protected.Get("/users/me", s.GetMyProfile)

	protected.Post("/boards/:slug/posts",
		middleware.RateLimit(s.limiter, "create_post", s.config.RateLimitPostCreate, window),
		s.CreatePost)

	protectedPosts := protected.Group("/posts")
	protectedPosts.Post("/:id/like",
		middleware.RateLimit(s.limiter, "like", s.config.RateLimitLike, window),
		s.ToggleLike)
	protectedPosts.Post("/:id/comments",
		middleware.RateLimit(s.limiter, "create_comment", s.config.RateLimitComment, window),
		s.CreateComment)
	protectedPosts.Put("/:id", s.UpdatePost)
	protectedPosts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
	admin.Get("/boards", s.AdminListBoards)
	admin.Post("/boards", s.AdminCreateBoard)
	admin.Put("/boards/:slug", s.AdminUpdateBoard)
	admin.Delete("/boards/:slug", s.AdminDeleteBoard)
}

// searchRateLimit throttles the listing route only when it carries a search
// query; plain scans are cheap and stay unthrottled.
func (s *Server) searchRateLimit(window time.Duration) fiber.Handler {
	rl := middleware.RateLimit(s.limiter, "search", s.config.RateLimitSearch, window)
	return func(c *fiber.Ctx) error {
		if c.Query("q") == "" {
			return c.Next()
		}
		return rl(c)
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis only serves the preview cache; its absence degrades, never fails.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userRepo.IsAdmin(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// GetFeatureFlags reports the current flag state for operators.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flags": s.featureFlags.Raw()})
}

// Start builds the fiber app, wires middleware and routes, and serves until
// Shutdown drains it.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Driftboard API",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
