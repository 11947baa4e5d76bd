package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xuni/api/routes"
	"xuni/internal/shared/config"
	"xuni/internal/shared/middleware"
	"xuni/pkg/cache"
	"xuni/pkg/logger"
	"xuni/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	appLogger := logger.New(cfg.LogLevel, cfg.GinMode)
	logger.SetDefault(appLogger)
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info(envSourceMessage(cfg, envErr, os.Getenv("DOCKER_CONTAINER") == "true"))

	appLogger.Info("Starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Redis backs the idempotency cache and the rate limiter; both are
	// skipped when it is disabled or unreachable
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client, err := cache.Connect(context.Background(), cache.Config{
			Address:  cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	router := setupRouter(cfg, redisClient, appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			zap.String("address", cfg.GetServerAddress()),
			zap.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			zap.String("api_base", cfg.GetAPIBasePath()),
			zap.Bool("redis", redisClient != nil),
			zap.Bool("rate_limiting", redisClient != nil && cfg.RateLimit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited gracefully")
}

// envSourceMessage describes where the configuration came from
func envSourceMessage(cfg *config.Config, envErr error, inContainer bool) string {
	switch {
	case envErr == nil && cfg.IsDevelopment():
		return "Development environment: loaded .env file"
	case envErr == nil:
		return "Loaded .env file"
	case cfg.IsProduction() || inContainer:
		return "Production environment: using container environment variables"
	case cfg.IsDevelopment():
		return "Development environment: no .env file found, using system environment variables"
	default:
		return "No .env file found, using system environment variables"
	}
}

func setupRouter(cfg *config.Config, redisClient *redis.Client, appLogger *logger.Logger) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(middleware.RequestID(), middleware.RequestLogger(appLogger), middleware.Recovery(appLogger))

	engine.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	var cacheService cache.Service
	if redisClient != nil {
		cacheService = cache.NewService(redisClient)

		if cfg.RateLimit.Enabled {
			rateLimiter := ratelimit.NewRateLimiter(redisClient, &ratelimit.Config{
				Enabled:         cfg.RateLimit.Enabled,
				WindowDuration:  cfg.RateLimit.WindowDuration,
				DefaultRequests: cfg.RateLimit.DefaultRequests,
				APIRequests:     cfg.RateLimit.APIRequests,
				HealthRequests:  cfg.RateLimit.HealthRequests,
				WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
			})
			engine.Use(ratelimit.Middleware(rateLimiter, cfg.GetAPIBasePath(), appLogger))
			appLogger.Info("Rate limiter initialized",
				zap.Duration("window", cfg.RateLimit.WindowDuration),
				zap.Int("default_requests", cfg.RateLimit.DefaultRequests),
			)
		}
	}

	engine.NoRoute(middleware.NoRoute())
	engine.NoMethod(middleware.NoMethod())

	routes.NewRouter(cfg, cacheService, appLogger).SetupRoutes(engine)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Idempotency-Key", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, cache.HeaderReplay, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
