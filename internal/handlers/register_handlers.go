package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/property_ledger/cmd/docs"
	portsrepo "github.com/SscSPs/property_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/property_ledger/internal/core/ports/services"
	"github.com/SscSPs/property_ledger/internal/dto"
	"github.com/SscSPs/property_ledger/internal/middleware"
	"github.com/SscSPs/property_ledger/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil limiter disables rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health portsrepo.HealthChecker,
	rateLimiter *limiter.Limiter,
) {
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", healthHandler(health))

	setupAPIV1Routes(r, cfg, services, rateLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter))
	}
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	registerObligationRoutes(v1, services.Obligation, services.Payment, services.Overdue)
	registerSettlementRoutes(v1, services.Settlement)
	registerMigrationRoutes(v1, services.Migration)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = cfg.CORSAllowedOrigins
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(c.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	}
	return c
}

// healthHandler godoc
// @Summary Health check
// @Description Reports whether the service can reach its database
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func healthHandler(health portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "unavailable", Message: "database unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
