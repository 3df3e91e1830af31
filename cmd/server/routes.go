package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sagile-io/sagile/backend/internal/middleware"
	"github.com/sagile-io/sagile/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		authLimiter := middleware.RateLimit(5, 10)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authLimiter, svc.authHandler.Register)
			auth.POST("/login", authLimiter, svc.authHandler.Login)
			auth.POST("/refresh", authLimiter, svc.authHandler.Refresh)
			auth.GET("/config", svc.authHandler.GetAuthConfig)
		}

		// Template browsing is public so the project wizard works before login
		api.GET("/templates", svc.templateHandler.List)
		api.GET("/templates/:id", svc.templateHandler.Get)
		api.POST("/templates/:id/preview", svc.templateHandler.Preview)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Users
			protected.GET("/users", svc.userHandler.List)
			protected.GET("/users/search", svc.userHandler.Search)
			protected.PUT("/users/me", svc.userHandler.UpdateProfile)
			protected.GET("/users/:id", svc.userHandler.GetByID)
			protected.PUT("/users/:id", svc.userHandler.Update)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.GET("/projects/my", svc.projectHandler.MyProjects)
			protected.GET("/projects/search", svc.projectHandler.Search)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:id", svc.projectHandler.Get)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Project members
			protected.GET("/projects/:id/members", svc.memberHandler.List)
			protected.POST("/projects/:id/members", svc.memberHandler.Add)
			protected.GET("/projects/:id/members/:userId", svc.memberHandler.Get)
			protected.PUT("/projects/:id/members/:userId", svc.memberHandler.UpdateRole)
			protected.DELETE("/projects/:id/members/:userId", svc.memberHandler.Remove)

			// Repositories
			protected.GET("/projects/:id/repositories", svc.repoHandler.ListByProject)
			protected.POST("/repositories", svc.repoHandler.Create)
			protected.GET("/repositories/:id", svc.repoHandler.Get)
			protected.PUT("/repositories/:id", svc.repoHandler.Update)
			protected.DELETE("/repositories/:id", svc.repoHandler.Delete)
			protected.POST("/repositories/:id/apply-template", svc.repoHandler.ApplyTemplate)

			// Repository files (paths travel in body/query, not the URL)
			protected.GET("/repositories/:id/files", svc.fileHandler.List)
			protected.GET("/repositories/:id/file", svc.fileHandler.Get)
			protected.POST("/repositories/:id/files", svc.fileHandler.Upsert)
			protected.DELETE("/repositories/:id/files", svc.fileHandler.Remove)

			// Templates (creation needs a manager)
			protected.POST("/templates", middleware.ManagerRequired(), svc.templateHandler.Create)

			// Tasks
			protected.GET("/projects/:id/tasks", svc.taskHandler.ListByProject)
			protected.GET("/tasks/my", svc.taskHandler.MyTasks)
			protected.GET("/tasks/search", svc.taskHandler.Search)
			protected.POST("/tasks", svc.taskHandler.Create)
			protected.GET("/tasks/:id", svc.taskHandler.Get)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)
			protected.PATCH("/tasks/:id/progress", svc.taskHandler.UpdateProgress)
			protected.POST("/tasks/:id/comments", svc.taskHandler.AddComment)
			protected.POST("/tasks/:id/code-links", svc.taskHandler.AddCodeLink)

			// System logs (managers only)
			protected.GET("/system-logs", middleware.ManagerRequired(), svc.systemLogHandler.List)
			protected.GET("/system-logs/modules", middleware.ManagerRequired(), svc.systemLogHandler.Modules)
		}
	}
}
