// Package server contains the HTTP handlers for the service-request API.
package server

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"airtecs/internal/bootstrap"
	"airtecs/internal/config"
	"airtecs/internal/featureflags"
	"airtecs/internal/middleware"
	"airtecs/internal/models"
	"airtecs/internal/notifications"
	"airtecs/internal/payments"
	"airtecs/internal/repository"
	"airtecs/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
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
	featureFlags   *featureflags.Manager

	requestRepo      repository.RequestRepository
	progressRepo     repository.ProgressRepository
	paymentRepo      repository.PaymentRepository
	catalogRepo      repository.CatalogRepository
	notificationRepo repository.NotificationRepository
	profileRepo      repository.ProfileRepository
	reportRepo       repository.ReportRepository

	relay *notifications.Relay

	requestService      *service.RequestService
	progressService     *service.ProgressService
	paymentService      *service.PaymentService
	catalogService      *service.CatalogService
	notificationService *service.NotificationService
	profileService      *service.ProfileService
	reportService       *service.ReportService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Migrate: true, SeedCatalog: true})
	if err != nil {
		return nil, err
	}

	charger := payments.NewGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayKey)
	return newServer(cfg, db, redisClient, charger), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, charger payments.Charger) (*Server, error) {
	return newServer(cfg, db, redisClient, charger), nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, charger payments.Charger) *Server {
	requestRepo := repository.NewRequestRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	reportRepo := repository.NewReportRepository(db)

	prom := middleware.InitMetrics("airtecs-api")

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   prom,
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
		requestRepo:      requestRepo,
		progressRepo:     progressRepo,
		paymentRepo:      paymentRepo,
		catalogRepo:      catalogRepo,
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		reportRepo:       reportRepo,
	}

	server.relay = notifications.NewRelay(notificationRepo, redisClient)
	server.requestService = service.NewRequestService(requestRepo, progressRepo, catalogRepo, profileRepo, server.relay)
	server.progressService = service.NewProgressService(requestRepo, progressRepo, server.relay)
	server.paymentService = service.NewPaymentService(requestRepo, paymentRepo, charger, server.relay)
	server.catalogService = service.NewCatalogService(catalogRepo)
	server.notificationService = service.NewNotificationService(notificationRepo)
	server.profileService = service.NewProfileService(profileRepo)
	server.reportService = service.NewReportService(requestRepo, reportRepo)

	return server
}

// RequestService exposes the lifecycle service for schedulers wired in cmd.
func (s *Server) RequestService() *service.RequestService {
	return s.requestService
}

// NotificationService exposes the notification service for schedulers wired in cmd.
func (s *Server) NotificationService() *service.NotificationService {
	return s.notificationService
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

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

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
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
		Title: "AirTecs Backend Metrics Dashboard",
	}))

	// Public catalog browse
	api.Get("/service-types", s.GetServiceTypes)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// Service request routes
	requests := protected.Group("/requests")
	requests.Post("/", s.RoleRequired(service.RoleCustomer), middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_request"), s.CreateRequest)
	// Define specific routes BEFORE generic /:id routes
	requests.Get("/active", s.RoleRequired(service.RoleCustomer), s.GetActiveRequest)
	requests.Get("/pending", s.RoleRequired(service.RoleTechnician), s.GetPendingRequests)
	requests.Get("/assigned", s.RoleRequired(service.RoleTechnician), s.GetAssignedRequests)
	requests.Post("/:id/accept", s.RoleRequired(service.RoleTechnician), middleware.RateLimit(
		s.redis, 20, time.Minute, "accept_request"), s.AcceptRequest)
	requests.Post("/:id/progress", s.RoleRequired(service.RoleTechnician), s.AdvanceProgress)
	requests.Get("/:id/progress", s.GetProgressHistory)
	requests.Post("/:id/payment", s.RoleRequired(service.RoleCustomer), middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "settle_payment"), s.SettlePayment)
	requests.Get("/:id/payment", s.GetPayment)
	requests.Post("/:id/report", s.RoleRequired(service.RoleCustomer), s.FileReport)
	// Generic /:id routes must be last
	requests.Get("/:id", s.GetRequest)
	requests.Delete("/:id", s.CancelRequest)

	// Notification routes
	notificationsGroup := protected.Group("/notifications")
	notificationsGroup.Get("/", s.GetNotifications)
	notificationsGroup.Post("/read", s.MarkNotificationsRead)

	// Technician routes
	technicians := protected.Group("/technicians", s.RoleRequired(service.RoleTechnician))
	technicians.Get("/me/profile", s.GetMyProfile)
	technicians.Put("/me/profile", s.UpsertMyProfile)
	technicians.Get("/me/completed", s.GetCompletedRequests)
	technicians.Get("/me/earnings", s.GetEarnings)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/service-types", s.CreateServiceType)
	admin.Post("/sweep", s.RunExpireSweep)
	admin.Post("/notifications/purge", s.PurgeNotifications)
	admin.Get("/feature-flags", s.GetFeatureFlags)
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
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

// AuthRequired returns the authentication middleware. It validates the JWT,
// checks the revocation blacklist and stores the subject ID and role in the
// request context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "airtecs-api" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		role, _ := claims["role"].(string)
		if role == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Missing role claim"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		c.Locals("userID", uint(userID))
		c.Locals("role", role)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		ctx = context.WithValue(ctx, middleware.RoleKey, role)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RoleRequired returns middleware that rejects callers whose token does not
// carry the given role. Must be placed after AuthRequired.
func (s *Server) RoleRequired(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("role") != role {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("This action requires the "+role+" role"))
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin callers with 403.
// Must be placed after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("role") != "admin" {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "AirTecs API",
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
