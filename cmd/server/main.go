package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/config"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/database"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/documents"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/handlers"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/logger"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/metrics"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/middleware"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/notify"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/numbering"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/repository"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/risk"
	"github.com/HoussemEddineWeslati/RentPlatform-GLI/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting RentPlatform GLI API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
	})

	// Open the configured store. The postgres driver owns a connection pool
	// and applies the schema on boot; the memory driver is self-contained.
	ctx := context.Background()
	var store repository.Store
	var probe handlers.Pinger

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", err, map[string]interface{}{
				"host": cfg.Database.Host,
				"port": cfg.Database.Port,
				"name": cfg.Database.Name,
			})
		}
		defer db.Close()

		if err := repository.ApplySchema(ctx, db); err != nil {
			log.Fatal("Failed to apply database schema", err, nil)
		}

		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})

		store = repository.NewPostgres(db)
		probe = db
	case config.DriverMemory:
		log.Warn("Using in-memory store, data will not survive a restart", nil)
		store = repository.NewMemory()
	}

	// Collaborators shared by the services
	m := metrics.New(prometheus.DefaultRegisterer)
	numbers := numbering.NewGenerator()
	scorer := risk.NewHeuristicScorer()
	renderer := documents.NewTextRenderer()
	sender := notify.NewLogSender(log)

	// Service layer
	landlordService := services.NewLandlordService(store, log)
	propertyService := services.NewPropertyService(store, log)
	tenantService := services.NewTenantService(store, log)
	policyService := services.NewPolicyService(store, numbers, scorer, renderer, sender, m, log)
	claimService := services.NewClaimService(store, numbers, sender, m, log)

	// Handlers
	landlordHandler := handlers.NewLandlordHandler(landlordService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	policyHandler := handlers.NewPolicyHandler(policyService)
	claimHandler := handlers.NewClaimHandler(claimService)
	healthHandler := handlers.NewHealthHandler(probe, cfg.Server.Env)

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check and metrics routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/v1/info", healthHandler.Info)

	// Register API v1 routes. Every entity route requires the acting user's
	// identity, asserted upstream and forwarded in the X-User-ID header.
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		landlords := v1.Group("/landlords")
		{
			landlords.POST("", landlordHandler.Create)
			landlords.GET("", landlordHandler.List)
			landlords.GET("/:id", landlordHandler.Get)
			landlords.PATCH("/:id", landlordHandler.Update)
			landlords.DELETE("/:id", landlordHandler.Delete)
			landlords.GET("/:id/properties", propertyHandler.ListByLandlord)
			landlords.GET("/:id/policies", policyHandler.ListByLandlord)
		}

		properties := v1.Group("/properties")
		{
			properties.POST("", propertyHandler.Create)
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.PATCH("/:id", propertyHandler.Update)
			properties.DELETE("/:id", propertyHandler.Delete)
			properties.GET("/:id/tenants", tenantHandler.ListByProperty)
		}

		tenants := v1.Group("/tenants")
		{
			tenants.POST("", tenantHandler.Create)
			tenants.GET("", tenantHandler.List)
			tenants.GET("/:id", tenantHandler.Get)
			tenants.PATCH("/:id", tenantHandler.Update)
			tenants.DELETE("/:id", tenantHandler.Delete)
		}

		policies := v1.Group("/policies")
		{
			policies.POST("", policyHandler.Create)
			policies.GET("", policyHandler.List)
			policies.GET("/:id", policyHandler.Get)
			policies.PATCH("/:id/status", policyHandler.UpdateStatus)
			policies.DELETE("/:id", policyHandler.Delete)
			policies.GET("/:id/document", policyHandler.Document)
			policies.GET("/:id/claims", claimHandler.ListByPolicy)
		}

		claims := v1.Group("/claims")
		{
			claims.POST("", claimHandler.Create)
			claims.GET("", claimHandler.List)
			claims.GET("/:id", claimHandler.Get)
			claims.PATCH("/:id", claimHandler.Update)
			claims.DELETE("/:id", claimHandler.Delete)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
