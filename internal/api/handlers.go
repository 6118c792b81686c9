package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolog/backend/internal/middleware"
	"github.com/pageza/glucolog/backend/internal/service"
)

// Dependencies are the services the API routes are built from. Tokens and
// RateLimiter are optional.
type Dependencies struct {
	Dashboard   service.IDashboardService
	Records     service.IRecordService
	Export      service.IExportService
	Tokens      middleware.TokenValidator
	RateLimiter *middleware.RateLimiter
	Ping        func(ctx context.Context) error
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "ok"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(deps.Ping))

	api := router.Group("/api")
	if deps.Tokens != nil {
		api.Use(middleware.AuthMiddleware(deps.Tokens))
	}

	var limited []gin.HandlerFunc
	if deps.RateLimiter != nil {
		limited = append(limited, deps.RateLimiter.RateLimitMiddleware())
	}

	NewRecordHandler(deps.Records).RegisterRoutes(api)
	NewDashboardHandler(deps.Dashboard).RegisterRoutes(api, limited...)
	if deps.Export != nil {
		NewExportHandler(deps.Export).RegisterRoutes(api)
	}
}
