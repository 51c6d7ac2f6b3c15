// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitness-tracker/companion/internal/integration/entrypoint/controller"
	"github.com/fitness-tracker/companion/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	snapshotController *controller.SnapshotController
	workoutController  *controller.WorkoutController
	messageController  *controller.MessageController
	refreshRateLimiter *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	snapshotController *controller.SnapshotController,
	workoutController *controller.WorkoutController,
	messageController *controller.MessageController,
	refreshRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		snapshotController: snapshotController,
		workoutController:  workoutController,
		messageController:  messageController,
		refreshRateLimiter: refreshRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.authMiddleware != nil {
		v1.Use(r.authMiddleware.Authenticate())
	}

	if r.snapshotController != nil {
		refresh := []gin.HandlerFunc{r.snapshotController.Refresh}
		if r.refreshRateLimiter != nil {
			refresh = append([]gin.HandlerFunc{r.refreshRateLimiter.Middleware()}, refresh...)
		}
		v1.POST("/refresh/:kind", refresh...)
		v1.GET("/snapshots/:kind", r.snapshotController.Get)
	}

	if r.workoutController != nil {
		workouts := v1.Group("/scheduled-workouts")
		{
			workouts.GET("", r.workoutController.List)
			workouts.POST("/:id/track", r.workoutController.Track)
			workouts.POST("/:id/finish", r.workoutController.Finish)
			workouts.POST("/:id/complete", r.workoutController.Complete)
		}
	}

	if r.messageController != nil {
		messages := v1.Group("/messages")
		{
			messages.GET("", r.messageController.List)
			messages.POST("", r.messageController.Show)
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
