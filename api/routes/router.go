// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"xuni/internal/echo"
	"xuni/internal/shared/config"
	"xuni/internal/shared/utils/response"
	"xuni/pkg/cache"
	"xuni/pkg/logger"

	"github.com/gin-gonic/gin"
)

const serviceName = "xuni"

// Router holds all route dependencies
type Router struct {
	config *config.Config
	cache  cache.Service // nil when Redis is disabled
	logger *logger.Logger
}

// HealthStatus is the payload of the health endpoints
type HealthStatus struct {
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	APIVersion string    `json:"api_version"`
	Redis      string    `json:"redis"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, cacheService cache.Service, l *logger.Logger) *Router {
	return &Router{
		config: cfg,
		cache:  cacheService,
		logger: l,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupEchoRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		status := r.healthStatus()

		if r.cache != nil {
			if err := r.cache.Ping(c.Request.Context()); err != nil {
				r.logger.LogHTTPError(c, err, http.StatusServiceUnavailable)
				status.Status = "unhealthy"
				status.Redis = "unreachable"
				response.RespondJSON(c, http.StatusServiceUnavailable,
					response.Failure[HealthStatus]().WithMessage(err.Error()).WithData(status))
				return
			}
			status.Redis = "connected"
		}

		response.OK(c, status)
	})

	engine.GET("/ping", func(c *gin.Context) {
		response.RespondJSON(c, http.StatusOK, response.SuccessWith("pong").WithMessage("pong"))
	})

	engine.GET("/status", func(c *gin.Context) {
		status := r.healthStatus()
		status.Status = "operational"
		response.OK(c, status)
	})
}

func (r *Router) healthStatus() HealthStatus {
	redis := "disabled"
	if r.cache != nil {
		redis = "configured"
	}
	return HealthStatus{
		Status:     "healthy",
		Service:    serviceName,
		APIVersion: r.config.APIVersion,
		Redis:      redis,
		Timestamp:  time.Now().UTC(),
	}
}

// setupEchoRoutes configures the echo routes, replaying responses by
// Idempotency-Key when a cache is available
func (r *Router) setupEchoRoutes(rg *gin.RouterGroup) {
	echoService := echo.NewService()
	echoController := echo.NewController(echoService)

	var extra []gin.HandlerFunc
	if r.cache != nil {
		extra = append(extra, cache.Idempotency(r.cache, r.config.Redis.IdempotencyTTL, r.logger))
	}

	echo.SetupEchoRoutes(rg, echoController, extra...)
}
