package main

import (
	"github.com/gin-gonic/gin"
	"github.com/teamtrack/backend/internal/middleware"
	"github.com/teamtrack/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth routes
	authLimiter := middleware.NewRateLimiter(&svc.cfg.RateLimit)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Memberships
			protected.GET("/projects/:id/members", svc.memberHandler.List)
			protected.POST("/projects/:id/members", svc.memberHandler.Add)
			protected.POST("/projects/:id/invitations", svc.memberHandler.Invite)
			protected.POST("/memberships/:id/accept", svc.memberHandler.Accept)
			protected.DELETE("/memberships/:id", svc.memberHandler.End)

			// Labels
			protected.GET("/projects/:id/labels", svc.labelHandler.List)
			protected.POST("/projects/:id/labels", svc.labelHandler.Create)
			protected.DELETE("/projects/:id/labels/:labelId", svc.labelHandler.Delete)

			// Tasks
			protected.GET("/projects/:id/tasks", svc.taskHandler.List)
			protected.GET("/projects/:id/tasks/:taskId", svc.taskHandler.Get)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
			protected.PUT("/projects/:id/tasks/:taskId", svc.taskHandler.Update)
			protected.PUT("/projects/:id/tasks/:taskId/status", svc.taskHandler.ChangeStatus)
			protected.DELETE("/projects/:id/tasks/:taskId", svc.taskHandler.Delete)

			// Assignments
			protected.GET("/projects/:id/tasks/:taskId/assignable", svc.taskHandler.Assignable)
			protected.POST("/projects/:id/tasks/:taskId/assignments", svc.taskHandler.Assign)
			protected.DELETE("/projects/:id/tasks/:taskId/assignments/:userId", svc.taskHandler.Unassign)

			// Comments
			protected.POST("/tasks/:id/comments", svc.commentHandler.Create)
			protected.GET("/comments/:id", svc.commentHandler.Get)
			protected.PUT("/comments/:id", svc.commentHandler.Update)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/activity-logs", svc.activityLogHandler.List)
		}
	}
}
