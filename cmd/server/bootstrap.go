package main

import (
	"context"

	"github.com/teamtrack/backend/internal/config"
	"github.com/teamtrack/backend/internal/handlers"
	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/services"
	"github.com/teamtrack/backend/internal/utils"
	"github.com/teamtrack/backend/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg       *config.Config
	queue     services.NotificationQueue
	worker    *services.Worker
	retention *services.RetentionScheduler

	authHandler        *handlers.AuthHandler
	projectHandler     *handlers.ProjectHandler
	memberHandler      *handlers.MemberHandler
	taskHandler        *handlers.TaskHandler
	labelHandler       *handlers.LabelHandler
	commentHandler     *handlers.CommentHandler
	activityLogHandler *handlers.ActivityLogHandler
	healthHandler      *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, queue, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitActivityLogger(models.GetDB())

	// Create default admin user on an empty installation
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.SeedAdminIfNotExists(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed admin user")
	}

	// Invitation notifications: async over Redis when enabled, in-process otherwise
	notificationService := services.NewNotificationService(&cfg.SMTP)
	queue := services.InitNotificationQueue(cfg)
	if syncQueue, ok := queue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notificationService.DeliverInvite)
	}

	var worker *services.Worker
	if queue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		worker.SetProcessor(notificationService.DeliverInvite)
		if err := worker.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start notification worker")
		}
	}

	// Nightly cleanup of expired refresh tokens and old activity logs
	retention := services.NewRetentionScheduler(models.GetDB(), &cfg.Retention)
	if err := retention.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start retention scheduler")
	}

	return &appServices{
		cfg:                cfg,
		queue:              queue,
		worker:             worker,
		retention:          retention,
		authHandler:        handlers.NewAuthHandler(models.GetDB(), cfg),
		projectHandler:     handlers.NewProjectHandler(models.GetDB()),
		memberHandler:      handlers.NewMemberHandler(models.GetDB(), queue),
		taskHandler:        handlers.NewTaskHandler(models.GetDB()),
		labelHandler:       handlers.NewLabelHandler(models.GetDB()),
		commentHandler:     handlers.NewCommentHandler(models.GetDB()),
		activityLogHandler: handlers.NewActivityLogHandler(models.GetDB()),
		healthHandler:      handlers.NewHealthHandler(queue),
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	if s.retention != nil {
		s.retention.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.queue != nil {
		s.queue.Close()
	}
	logger.Info().Msg("Background services stopped")
}
