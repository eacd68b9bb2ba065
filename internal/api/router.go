package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moodz/moodzapi/internal/social"
	"github.com/moodz/moodzapi/pkg/logging"
)

// Router sets up API routes
type Router struct {
	service *social.Service
	logger  *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(service *social.Service) *Router {
	return &Router{
		service: service,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	api := engine.Group("/api")

	// User records
	api.GET("/users", r.listUsers)
	api.POST("/users", r.createUser)
	api.GET("/users/:id", r.getUser)
	api.PUT("/users/:id", r.updateUser)
	api.DELETE("/users/:id", r.deleteUser)

	// Content entries
	api.GET("/users/:id/entries", r.getEntries)
	api.POST("/users/:id/entries", r.addEntry)
	api.DELETE("/users/:id/entries", r.removeEntry)

	// Relationship views
	api.GET("/users/:id/followers", r.getFollowers)
	api.GET("/users/:id/following", r.getFollowing)
	api.GET("/users/:id/requests", r.getPendingRequests)

	// Graph mutations
	api.POST("/social/follow", r.follow)
	api.POST("/social/unfollow", r.unfollow)
	api.POST("/social/requests/accept", r.acceptRequest)
	api.POST("/social/requests/decline", r.declineRequest)

	// Feed
	api.GET("/feed/:id", r.getFeed)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "moodz-api",
	})
}
