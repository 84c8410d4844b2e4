// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopcanopy/splitrank-go/internal/application/container"
	"github.com/shopcanopy/splitrank-go/internal/presentation/http/handlers"
	"github.com/shopcanopy/splitrank-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger)
	recommendationHandlers := handlers.NewRecommendationHandlers(container.RecommendationService, container.EventService, container.Logger)
	trackHandlers := handlers.NewTrackHandlers(container.EventService, container.Logger)
	productHandlers := handlers.NewProductHandlers(container.ProductRepository, container.Logger)
	experimentHandlers := handlers.NewExperimentHandlers(container.ExperimentTable, container.StatsService, container.Logger)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.ResolveIdentity(container.AuthService, container.CacheManager))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/auth/register", authHandlers.PostRegister)
		api.POST("/auth/login", authHandlers.PostLogin)

		api.GET("/products", productHandlers.GetProducts)
		api.POST("/track/click", trackHandlers.PostClick)

		api.GET("/experiments/:name/stats", experimentHandlers.GetStats)

		// The recommendation surface is the only route that needs a group
		// assignment before it can respond.
		assigned := api.Group("")
		assigned.Use(middleware.AssignRecommendationGroup(container.AssignmentService))
		{
			assigned.GET("/recommendations", recommendationHandlers.GetRecommendations)
		}
	}

	return r
}
