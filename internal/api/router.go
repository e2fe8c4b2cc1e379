package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/transferdesk/management-api/docs"
	"github.com/transferdesk/management-api/internal/api/handler"
	"github.com/transferdesk/management-api/internal/api/middleware"
	"github.com/transferdesk/management-api/internal/core/domain"
	"github.com/transferdesk/management-api/internal/core/service"
	"github.com/transferdesk/management-api/internal/infrastructure/config"
	mongodb "github.com/transferdesk/management-api/internal/infrastructure/db/mongo"
	redisdb "github.com/transferdesk/management-api/internal/infrastructure/db/redis"
	"github.com/transferdesk/management-api/internal/infrastructure/http/handlers"
	"github.com/transferdesk/management-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered. The audit
// dispatcher's workers run until ctx is cancelled.
func NewRouter(ctx context.Context, db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("transferdesk"))

	// --- Dependencies ---
	principalRepo := mongodb.NewPrincipalRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	locationRepo := mongodb.NewLocationRepository(db)
	sessionCache := redisdb.NewSessionCache(rdb, cfg.Auth.TokenTTL)

	auditSink := queue.NewAuditDispatcher(0, auditRepo, log)
	auditSink.Start(ctx)

	authService := service.NewAuthService(principalRepo, auditSink, sessionCache, service.AuthConfig{
		MaxAttempts:   cfg.Auth.MaxAttempts,
		AdminAPILogin: cfg.Auth.AdminAPILogin,
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
	}, log)
	userService := service.NewUserService(principalRepo, log)
	locationService := service.NewLocationService(locationRepo, log)
	sessions := service.NewSessionResolver(principalRepo, sessionCache, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	locationHandler := handler.NewLocationHandler(locationService)

	authMW := middleware.Auth(cfg.Auth.JWTSecret, sessions)

	// --- Authentication ---
	e.POST("/v1/authenticate", authHandler.Authenticate)

	// --- User management (admin workflows) ---
	users := e.Group("/v1/users", authMW, middleware.RequireRole(domain.RoleSystemAdmin))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Location hierarchy ---
	locations := e.Group("/v1/locations", authMW)
	locations.POST("", locationHandler.Create)
	locations.GET("", locationHandler.List)
	locations.GET("/:id", locationHandler.Get)
	locations.PUT("/:id", locationHandler.Update)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
