package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"comm-service/internal/audit"
	"comm-service/internal/handler"
	"comm-service/internal/mailer"
	"comm-service/internal/middleware"
	"comm-service/internal/service"
	"comm-service/pkg/config"
	"comm-service/pkg/database"
	"comm-service/pkg/jwtutil"
	"comm-service/pkg/logger"
	"comm-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting comm-service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)

	// Ensure the default package catalog exists
	if err := service.SeedPackages(database.GetDB(), log); err != nil {
		log.Fatal("Failed to seed default packages", zap.Error(err))
	}
	log.Info("Default package catalog ensured")

	// Wire services
	db := database.GetDB()
	recorder := audit.NewRecorder(log)
	resetMailer := mailer.New(cfg.Mail.WebhookURL, cfg.Mail.Timeout, log)

	userService := service.NewUserService(db, recorder, mailerOrNil(resetMailer), log)
	packageService := service.NewPackageService(db, recorder, log)
	customerService := service.NewCustomerService(db, recorder, log)
	auditService := service.NewAuditService(db, recorder, log)
	contactService := service.NewContactService(db, log)

	userHandler := handler.NewUserHandler(userService)
	packageHandler := handler.NewPackageHandler(packageService)
	customerHandler := handler.NewCustomerHandler(customerService)
	auditHandler := handler.NewAuditHandler(auditService)
	contactHandler := handler.NewContactHandler(contactService)

	authGuard := middleware.Auth(db)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)
	e.POST("/contact", contactHandler.SubmitContact)

	// Identity routes
	users := e.Group("/users")
	users.POST("/login", userHandler.Login)
	users.POST("/register", userHandler.Register)
	users.POST("/password-reset", userHandler.RequestPasswordReset)
	users.POST("/reset-password", userHandler.ResetPassword)
	users.PUT("/users/:id", userHandler.UpdateUser, authGuard)

	// Package catalog - all require authentication
	packages := e.Group("/packages")
	packages.Use(authGuard)
	packages.GET("", packageHandler.ListPackages)
	packages.GET("/:id", packageHandler.GetPackage)
	packages.POST("", packageHandler.CreatePackage)
	packages.PUT("/:id", packageHandler.UpdatePackage)
	packages.DELETE("/:id", packageHandler.DeletePackage)

	// Customer directory - all require authentication
	customers := e.Group("/customers")
	customers.Use(authGuard)
	customers.GET("", customerHandler.ListCustomers)
	customers.GET("/:id", customerHandler.GetCustomer)
	customers.POST("", customerHandler.CreateCustomer)
	customers.PUT("/:id", customerHandler.UpdateCustomer)
	customers.DELETE("/:id", customerHandler.DeleteCustomer)

	// Audit trail - all require authentication
	auditLogs := e.Group("/audit-logs")
	auditLogs.Use(authGuard)
	auditLogs.GET("", auditHandler.ListAuditLogs)
	auditLogs.GET("/actions", auditHandler.ListActions)
	auditLogs.GET("/:id", auditHandler.GetAuditLog)
	auditLogs.GET("/user/:id", auditHandler.ListAuditLogsByUser)
	auditLogs.POST("", auditHandler.CreateAuditLog)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

// mailerOrNil keeps a typed-nil *mailer.Mailer from being stored in the
// ResetMailer interface, which would defeat the nil check in the service.
func mailerOrNil(m *mailer.Mailer) service.ResetMailer {
	if m == nil {
		return nil
	}
	return m
}
