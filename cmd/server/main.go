package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripshare/internal/config"
	"tripshare/internal/handlers"
	"tripshare/internal/middleware"
	"tripshare/internal/repositories/mongodb"
	"tripshare/internal/services"
	"tripshare/internal/utils"
	"tripshare/pkg/cache"
	"tripshare/pkg/database"
	"tripshare/pkg/identity"
	"tripshare/pkg/logger"
	"tripshare/pkg/maps"
	"tripshare/pkg/oauth"
	"tripshare/pkg/storage"
	"tripshare/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Document store
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to document store: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}

	// Cache
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to cache: %v", err)
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache, appLogger, utils.AppName, utils.TripCacheTTL)

	// Identity provider
	verifier, err := newIdentityVerifier(cfg)
	if err != nil {
		appLogger.Fatalf("Failed to initialize identity provider: %v", err)
	}

	// Maps (optional: without a key, trips publish without coordinates)
	var mapsProvider maps.MapsProvider
	if cfg.Maps.GoogleMaps != nil && cfg.Maps.GoogleMaps.APIKey != "" {
		mapsProvider, err = maps.NewGoogleMapsProvider(cfg.Maps.GoogleMaps.APIKey)
		if err != nil {
			appLogger.Fatalf("Failed to initialize maps provider: %v", err)
		}
	}

	storageProvider, err := newStorageProvider(cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	tripRepo := mongodb.NewTripRepository(db.Database, cacheService)
	bookingRepo := mongodb.NewBookingRepository(db.Database, cacheService)
	reviewRepo := mongodb.NewReviewRepository(db.Database)

	// Services
	authService := services.NewAuthService(userRepo, verifier, cacheService, cfg.Security.JWTSecret, cfg.Security.SessionInactivity, appLogger)
	tripService := services.NewTripService(tripRepo, userRepo, cacheService, mapsProvider, appLogger)
	bookingService := services.NewBookingService(bookingRepo, tripRepo, cfg.Booking, appLogger)
	userService := services.NewUserService(userRepo, tripRepo, bookingRepo, reviewRepo, cacheService, storageProvider, appLogger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	tripHandler := handlers.NewTripHandler(tripService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	userHandler := handlers.NewUserHandler(userService)

	authMiddleware := middleware.NewAuthMiddleware(cacheService, cfg.Security.JWTSecret, cfg.Security.SessionInactivity, appLogger)
	limiters := routes.NewRateLimiters(cacheService, appLogger)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogging(appLogger))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.Fatalf("Invalid trusted proxies: %v", err)
		}
	}

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, authMiddleware)
		routes.SetupTripRoutes(v1, tripHandler, authMiddleware, limiters)
		routes.SetupBookingRoutes(v1, bookingHandler, authMiddleware, limiters)
		routes.SetupUserRoutes(v1, userHandler, authMiddleware)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "up", "cache": "up"}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if err := cacheService.Ping(ctx); err != nil {
			checks["cache"] = "down"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":  checks,
			"version": cfg.App.Version,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func newIdentityVerifier(cfg *config.Config) (identity.TokenVerifier, error) {
	switch cfg.OAuth.Provider {
	case "google":
		return identity.NewGoogleVerifier(oauth.NewGoogleProvider(cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret)), nil
	default:
		return identity.NewFirebaseVerifier(cfg.Firebase.CredentialsFile)
	}
}

func newStorageProvider(cfg *config.StorageConfig) (storage.StorageProvider, error) {
	switch cfg.Provider {
	case "s3", "aws":
		return storage.NewAWSS3Storage(cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "gcs", "gcp":
		return storage.NewGCPStorage(cfg.GCP.ProjectID, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}
