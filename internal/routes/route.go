package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventapp/internal/container"
	"github.com/joshua-takyi/eventapp/internal/handlers"
	"github.com/joshua-takyi/eventapp/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.Health(container.EventService))

		api.GET("/events", handlers.ListEvents(container.EventService))
		api.GET("/events/:id", handlers.GetEvent(container.EventService))
	}

	protected := api.Group("/events")
	protected.Use(middleware.AuthMiddleware(container.TokenVerifier, container.Logger))
	{
		protected.POST("", handlers.CreateEvent(container.EventService))
		protected.POST("/:id/like", handlers.ToggleLike(container.EventService))
		protected.POST("/:id/comment", handlers.AddComment(container.EventService))
	}

	return r
}
