// Package main provides the entry point for the Linklytics URL shortener service.
//
//	@title			Linklytics API
//	@version		1.0.0
//	@description	A URL shortener service with per-click analytics.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
//
//	@externalDocs.description	OpenAPI Specification
//	@externalDocs.url			https://swagger.io/resources/open-api/
package main

import (
	"Linklytics-Backend/internal/analytics"
	"Linklytics-Backend/internal/auth"
	"Linklytics-Backend/internal/clientinfo"
	"Linklytics-Backend/internal/config"
	"Linklytics-Backend/internal/database"
	"Linklytics-Backend/internal/geo"
	httpHandler "Linklytics-Backend/internal/handler/http"
	"Linklytics-Backend/internal/repository/postgres"
	"Linklytics-Backend/internal/service"
	"Linklytics-Backend/pkg/logger"
	"Linklytics-Backend/pkg/useragent"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	_ "Linklytics-Backend/docs" // Import swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting Linklytics service", zap.String("env", cfg.Env))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations if enabled
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Initialize Redis for the token blacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	pingCancel()
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	// Initialize User-Agent parser
	uaParser, err := useragent.NewParser("assets/regexes.yaml", log)
	if err != nil {
		log.Fatal("failed to initialize User-Agent parser", zap.Error(err))
	}

	// Initialize geolocation, falling back to disabled when no database is
	// configured or the file cannot be opened.
	var geoResolver geo.Resolver = geo.Disabled{}
	if cfg.GeoIP.DBPath != "" {
		maxmind, err := geo.NewMaxMind(cfg.GeoIP.DBPath, log)
		if err != nil {
			log.Warn("failed to open geoip database, geolocation disabled", zap.Error(err))
		} else {
			geoResolver = maxmind
			defer func() {
				if err := maxmind.Close(); err != nil {
					log.Error("failed to close geoip database", zap.Error(err))
				}
			}()
		}
	}

	// Initialize storage and services
	storage := postgres.New(db, log)
	urlShortenerService := service.NewURLShortener(storage, &cfg.URLShortener)
	analyticsService := service.NewAnalyticsService(storage)

	// Initialize JWT auth stack
	jwtConfig := &auth.JWTConfig{
		SecretKey: []byte(cfg.Auth.Secret),
		TokenTTL:  cfg.Auth.TokenTTL,
		Issuer:    cfg.Auth.Issuer,
	}
	jwtService := auth.NewJWTService(jwtConfig)
	passwordService := auth.NewPasswordService()
	blacklist := auth.NewTokenBlacklist(redisClient, cfg.Auth.BlacklistTTL, log)

	// Start the background click recorder
	recorder := analytics.NewRecorder(storage, uaParser, geoResolver, log, analytics.Config{
		WorkerCount:     cfg.Analytics.WorkerCount,
		BufferSize:      cfg.Analytics.BufferSize,
		ShutdownTimeout: cfg.Analytics.ShutdownTimeout,
	})
	if err := recorder.Start(); err != nil {
		log.Fatal("failed to start click recorder", zap.Error(err))
	}

	extractor := clientinfo.NewExtractor(cfg.URLShortener.TestIP)

	// Create HTTP server
	httpAPIServer := httpHandler.NewServer(
		storage,
		urlShortenerService,
		analyticsService,
		recorder,
		extractor,
		jwtService,
		passwordService,
		blacklist,
		func() error { return database.HealthCheck(db) },
		log,
		cfg.URLShortener.BaseURL,
	)

	httpMux := httpAPIServer.SetupRoutes()

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      httpMux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down Linklytics service...")

	// Stop accepting requests first, then drain the click queue.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := recorder.Stop(); err != nil {
		log.Error("failed to stop click recorder", zap.Error(err))
	} else {
		log.Info("click recorder stopped")
	}
}
