// Package server contains the HTTP handlers of the brewing companion API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "brewhub/docs" // swagger docs
	"brewhub/internal/config"
	"brewhub/internal/database"
	"brewhub/internal/featureflags"
	"brewhub/internal/middleware"
	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"
	"brewhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	app               *fiber.App
	promMiddleware    *fiberprometheus.FiberPrometheus
	rateLimiter       *middleware.Limiter
	featureFlags      *featureflags.Manager
	inventoryService  *service.InventoryService
	recipeService     *service.RecipeService
	extractionService *service.ExtractionService
	socialService     *service.SocialService
	followService     *service.FollowService
	feedService       *service.FeedService
	userService       *service.UserService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB/Redis and performs built-in seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	bagRepo := repository.NewCoffeeBagRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	tastingRepo := repository.NewTastingRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("brewhub-api"),
		rateLimiter:    middleware.NewLimiter(redisClient, cfg.Env),
		featureFlags:   flags,
	}

	server.inventoryService = service.NewInventoryService(bagRepo)
	server.recipeService = service.NewRecipeService(recipeRepo)
	server.socialService = service.NewSocialService(postRepo, commentRepo, recipeRepo)
	server.extractionService = service.NewExtractionService(
		server.recipeService, server.inventoryService, server.socialService, tastingRepo)
	server.followService = service.NewFollowService(followRepo, userRepo)
	server.feedService = service.NewFeedService(postRepo, followRepo, userRepo, flags,
		time.Duration(cfg.FeedCacheTTLSeconds)*time.Second)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

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

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + middleware.CorrelationHeader,
		ExposeHeaders:    middleware.CorrelationHeader,
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Preflight requests belong to CORS. Local and test runs are never limited.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || middleware.RateLimitBypassed(s.config.Env)
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
// Public routes are registered before the authenticated group so they never reach AuthRequired.
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
		Title: "Brewhub Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Public recipe routes
	publicRecipes := api.Group("/recipes")
	publicRecipes.Get("/", s.ListRecipes)
	publicRecipes.Get("/defaults", s.ListDefaultRecipes)
	publicRecipes.Get("/:id", s.GetRecipe)

	// Public post routes. Specific paths before the generic /:id route.
	publicPosts := api.Group("/posts")
	publicPosts.Get("/feed", s.GetFeed)
	publicPosts.Get("/user/:userId", s.GetUserPosts)
	publicPosts.Get("/:id/comments", s.GetComments)
	publicPosts.Get("/:id/likes", s.GetPostLikes)
	publicPosts.Get("/:id/recipe", s.GetPostRecipe)
	publicPosts.Get("/:id", s.GetPost)

	api.Get("/comments/:commentId/replies", s.GetReplies)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	recipes := protected.Group("/recipes")
	recipes.Post("/", s.CreateRecipe)
	recipes.Post("/complete", s.rateLimiter.Handler(
		"complete_extraction", 30, time.Minute, middleware.FailOpen), s.CompleteExtraction)
	recipes.Put("/:id", s.UpdateRecipe)
	recipes.Delete("/:id", s.DeleteRecipe)

	tastings := protected.Group("/tastings")
	tastings.Post("/", s.RecordTasting)
	tastings.Get("/me", s.GetMyTastings)
	tastings.Delete("/:id", s.DeleteTasting)

	bags := protected.Group("/bags")
	bags.Post("/", s.CreateBag)
	bags.Get("/me", s.GetMyBags)
	bags.Post("/:id/consume", s.ConsumeBag)
	bags.Get("/:id", s.GetBag)
	bags.Put("/:id", s.UpdateBag)
	bags.Delete("/:id", s.DeleteBag)

	posts := protected.Group("/posts")
	posts.Get("/feed/following", s.GetFollowingFeed)
	posts.Post("/", s.rateLimiter.Handler(
		"create_post", 10, 5*time.Minute, middleware.FailOpen), s.CreatePost)
	posts.Post("/:id/like", s.ToggleLike)
	posts.Get("/:id/liked", s.HasLiked)
	posts.Post("/:id/comments", s.rateLimiter.Handler(
		"create_comment", 10, time.Minute, middleware.FailOpen), s.CreateComment)
	posts.Delete("/:id", s.DeletePost)

	protected.Delete("/comments/:commentId", s.DeleteComment)

	// User routes. Static paths before /:userId.
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/search", s.rateLimiter.Handler(
		"user_search", 30, time.Minute, middleware.FailOpen), s.SearchUsers)
	users.Get("/following", s.GetMyFollowing)
	users.Get("/followers", s.GetMyFollowers)
	users.Post("/:userId/follow/toggle", s.ToggleFollow)
	users.Post("/:userId/follow", s.Follow)
	users.Delete("/:userId/follow", s.Unfollow)
	users.Get("/:userId/following", s.IsFollowing)

	protected.Get("/feature-flags", s.GetFeatureFlags)
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now()})
}

// ReadinessCheck handles GET /health/ready. Redis is optional, so a missing
// client reports "unavailable" and only a failing one marks the service unhealthy.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{"database": "healthy", "redis": "unavailable"}
	healthy := true

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unhealthy"
		healthy = false
	}
	if s.redis != nil {
		checks["redis"] = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy"
			healthy = false
		}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "checks": checks, "time": time.Now()})
	}
	return c.JSON(fiber.Map{"status": "healthy", "checks": checks, "time": time.Now()})
}

// AuthRequired verifies the bearer token issued by the auth service and
// rejects revoked tokens listed in Redis under blacklist:<jti>.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := middleware.ParseBearer(c.Get("Authorization"))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		principal, err := middleware.VerifyToken(s.config, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		if principal.JTI != "" && s.redis != nil {
			revoked, err := s.redis.Exists(c.UserContext(), "blacklist:"+principal.JTI).Result()
			if err == nil && revoked > 0 {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Token has been revoked"))
			}
		}

		middleware.StorePrincipal(c, principal)
		c.SetUserContext(observability.WithUserID(c.UserContext(), principal.UserID))

		return c.Next()
	}
}

// errorHandler renders errors that escaped a handler. Fiber errors such as an
// unknown route keep their status; anything else is logged and becomes a 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{Code: models.CodeHTTP, Message: fe.Message})
	}
	observability.Log.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start builds the fiber app and blocks serving it.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:      "Brewhub API",
		BodyLimit:    1 << 20,
		ErrorHandler: errorHandler,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	observability.Log.Info("server listening", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains in-flight requests, then closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if err := database.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	observability.Log.Info("server stopped")
	return errors.Join(errs...)
}
