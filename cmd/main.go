package main

import (
	"github.com/deepak-ysoft/bustrips/internal/handler"
	"github.com/deepak-ysoft/bustrips/internal/middleware"
	"github.com/deepak-ysoft/bustrips/internal/service"
	"github.com/deepak-ysoft/bustrips/pkg/config"
	"github.com/deepak-ysoft/bustrips/pkg/database"
	"github.com/deepak-ysoft/bustrips/pkg/jwtutil"
	"github.com/deepak-ysoft/bustrips/pkg/logger"
	"github.com/deepak-ysoft/bustrips/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
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
	log.Info("Starting bustrips service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire services and handlers
	db := database.GetDB()
	permSvc := service.NewPermissionService(db)
	orgSvc := service.NewOrganizationService(db, permSvc, log)
	groupSvc := service.NewGroupService(db, orgSvc)
	tripSvc := service.NewTripService(db, log)
	fleetSvc := service.NewFleetService(db)

	authHandler := handler.NewAuthHandler(db)
	orgHandler := handler.NewOrganizationHandler(orgSvc, permSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	tripHandler := handler.NewTripHandler(tripSvc)
	fleetHandler := handler.NewFleetHandler(fleetSvc)

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

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/profile", authHandler.Profile)
	api.POST("/org-auth/select", authHandler.SelectOrg)

	// Organization lifecycle and membership
	orgs := api.Group("/orgs")
	orgs.POST("", orgHandler.Create)
	orgs.POST("/default", orgHandler.CreateDefault)
	orgs.GET("", orgHandler.List)
	orgs.GET("/:id", orgHandler.Get)
	orgs.PUT("/:id", orgHandler.Update)
	orgs.DELETE("/:id", orgHandler.Delete)
	orgs.POST("/:id/restore", orgHandler.Restore)
	orgs.GET("/:id/members", orgHandler.Members)
	orgs.POST("/:id/invite", orgHandler.Invite)
	orgs.POST("/:id/members/role", orgHandler.ChangeRole)
	orgs.POST("/:id/leave", orgHandler.SelfRemove)
	orgs.GET("/:id/permissions", orgHandler.Permissions)
	orgs.GET("/:id/groups", groupHandler.List)
	orgs.POST("/:id/groups", groupHandler.Create)
	orgs.GET("/:id/trips", tripHandler.ListForOrg)

	// Permission matrix rows
	api.POST("/permissions", orgHandler.CreatePermission)
	api.PUT("/permissions/:pid", orgHandler.UpdatePermission)

	// Groups and their trips - require a selected organization context
	groups := api.Group("/groups")
	groups.Use(middleware.RequireOrgContext)
	groups.GET("/:id", groupHandler.Get)
	groups.PUT("/:id", groupHandler.Update)
	groups.DELETE("/:id", groupHandler.Delete)
	groups.GET("/:id/trips", tripHandler.ListForGroup)
	groups.POST("/:id/trips", tripHandler.Create)

	// Trip workflow
	trips := api.Group("/trips")
	trips.Use(middleware.RequireOrgContext)
	trips.GET("/:id", tripHandler.Get)
	trips.PUT("/:id", tripHandler.Update)
	trips.DELETE("/:id", tripHandler.Delete)
	trips.POST("/:id/quote", tripHandler.Quote)
	trips.POST("/:id/approve", tripHandler.Approve)
	trips.POST("/:id/reject", tripHandler.Reject)
	trips.POST("/:id/start", tripHandler.Start)
	trips.POST("/:id/complete", tripHandler.Complete)
	trips.POST("/:id/cancel", tripHandler.Cancel)
	trips.POST("/:id/assign", tripHandler.Assign)

	// Fleet management - application admins only
	buses := api.Group("/buses")
	buses.Use(middleware.RequireAppAdmin)
	buses.POST("", fleetHandler.Create)
	buses.GET("", fleetHandler.List)
	buses.GET("/:id", fleetHandler.Get)
	buses.PUT("/:id", fleetHandler.Update)
	buses.DELETE("/:id", fleetHandler.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
