package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/glucolog/backend/internal/api"
	"github.com/pageza/glucolog/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(logger *zap.Logger, corsOrigins []string, metrics *middleware.Metrics, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.CORS(corsOrigins),
	)
	if metrics != nil {
		router.Use(metrics.Middleware())
		router.GET("/metrics", metrics.Handler())
	}

	api.RegisterRoutes(router, deps)
	return router
}
