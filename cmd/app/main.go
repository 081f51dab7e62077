package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"academy-backend/internal/common/config"
	"academy-backend/internal/common/fallback"
	"academy-backend/internal/common/logger"
	"academy-backend/internal/common/middleware"
	activityhttp "academy-backend/internal/features/activity/delivery/http"
	activityrepo "academy-backend/internal/features/activity/repository/postgres"
	activityservice "academy-backend/internal/features/activity/service"
	profilehttp "academy-backend/internal/features/profile/delivery/http"
	"academy-backend/internal/features/profile/remote"
	profilerepo "academy-backend/internal/features/profile/repository/postgres"
	profileservice "academy-backend/internal/features/profile/service"
	xphttp "academy-backend/internal/features/xp/delivery/http"
	xprepo "academy-backend/internal/features/xp/repository/postgres"
	xpservice "academy-backend/internal/features/xp/service"
	"academy-backend/internal/platform/postgres"
	"academy-backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()
	logger.Init("academy-backend", cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()

	if cfg.Postgres.AutoMigrate {
		if err := postgresClient.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// The fallback store degrades to in-memory when Redis is unreachable, so
	// the sync chain always has a last-resort tier.
	var store fallback.Store
	redisClient, err := redis.Open(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-memory fallback store")
		store = fallback.NewMemoryStore()
	} else {
		defer redisClient.Close()
		store = fallback.NewRedisStore(redisClient)
	}

	profileRepository := profilerepo.NewPostgresRepository(postgresClient.GetDB())
	activityRepository := activityrepo.NewPostgresRepository(postgresClient.GetDB())
	xpRepository := xprepo.NewPostgresRepository(postgresClient.GetDB())

	activitySvc := activityservice.NewActivityService(activityRepository, store)

	remoteClient := remote.NewClient(cfg.ProfileAPI.BaseURL, cfg.ProfileAPI.Token, cfg.ProfileAPI.Timeout)
	strategies := profileservice.NewDefaultStrategies(remoteClient, profileRepository, store)
	syncSvc := profileservice.NewSyncService(strategies, profileRepository, store, activitySvc)
	adminResolver := profileservice.NewAdminResolver(cfg.Admin.Wallets, profileRepository, store)

	xpSvc := xpservice.NewXPService(xpRepository, activitySvc)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	profilehttp.NewProfileHandler(syncSvc, adminResolver).RegisterRoutes(v1)
	xphttp.NewXPHandler(xpSvc).RegisterRoutes(v1)
	activityhttp.NewActivityHandler(activitySvc).RegisterRoutes(v1)

	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := postgresClient.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "academy-backend",
		})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
