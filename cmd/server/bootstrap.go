package main

import (
	"github.com/robfig/cron/v3"
	"github.com/sagile-io/sagile/backend/internal/config"
	"github.com/sagile-io/sagile/backend/internal/handlers"
	"github.com/sagile-io/sagile/backend/internal/models"
	"github.com/sagile-io/sagile/backend/internal/services"
	"github.com/sagile-io/sagile/backend/internal/utils"
	"github.com/sagile-io/sagile/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	logCleanup *cron.Cron

	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	projectHandler   *handlers.ProjectHandler
	memberHandler    *handlers.ProjectMemberHandler
	repoHandler      *handlers.RepositoryHandler
	fileHandler      *handlers.RepositoryFileHandler
	templateHandler  *handlers.TemplateHandler
	taskHandler      *handlers.TaskHandler
	systemLogHandler *handlers.SystemLogHandler
	healthHandler    *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warnf("Failed to seed default data: %v", err)
	}

	db := models.GetDB()

	// Audit trail
	services.InitSystemLogger(db)
	logCleanup := services.StartLogCleanupScheduler(db, &cfg.Audit)

	// Shared services
	templateService := services.NewTemplateService(db, cfg.Templates.Dir)
	projectService := services.NewProjectService(db)
	repoService := services.NewRepositoryService(db, projectService, templateService)

	return &appServices{
		logCleanup:       logCleanup,
		authHandler:      handlers.NewAuthHandler(db, cfg),
		userHandler:      handlers.NewUserHandler(db),
		projectHandler:   handlers.NewProjectHandler(db),
		memberHandler:    handlers.NewProjectMemberHandler(db),
		repoHandler:      handlers.NewRepositoryHandler(repoService),
		fileHandler:      handlers.NewRepositoryFileHandler(repoService),
		templateHandler:  handlers.NewTemplateHandler(templateService),
		taskHandler:      handlers.NewTaskHandler(db),
		systemLogHandler: handlers.NewSystemLogHandler(db),
		healthHandler:    handlers.NewHealthHandler(templateService),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	if s.logCleanup != nil {
		s.logCleanup.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
