package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/estoico/stoic-rag-backend/internal/handlers"
	"github.com/estoico/stoic-rag-backend/internal/middleware"
	"github.com/estoico/stoic-rag-backend/internal/observability"
	"github.com/estoico/stoic-rag-backend/internal/requestdata"
)

type RouterConfig struct {
	AuthMiddleware     *middleware.AuthMiddleware
	AuthHandler        *handlers.AuthHandler
	ExerciseHandler    *handlers.ExerciseHandler
	DocumentHandler    *handlers.DocumentHandler
	EntitlementHandler *handlers.EntitlementHandler
	AllowOrigins       []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(observability.ServiceName))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Any authenticated role can introspect its own token.
	api.GET("/auth/verify", cfg.AuthHandler.Verify)
	api.GET("/auth/me", cfg.AuthHandler.Me)

	user := api.Group("/")
	user.Use(cfg.AuthMiddleware.RequireRole(requestdata.RoleUser))
	user.GET("/exercises/stream", cfg.ExerciseHandler.Stream)
	user.GET("/exercises", cfg.ExerciseHandler.List)
	user.POST("/exercises/:id/complete", cfg.ExerciseHandler.Complete)

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireRole(requestdata.RoleAdmin))
	admin.POST("/documents", cfg.DocumentHandler.Ingest)
	admin.DELETE("/entitlements/:user_id/cache", cfg.EntitlementHandler.InvalidateCache)

	return router
}
