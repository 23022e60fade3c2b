package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/teamtrack/backend/internal/config"
	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/pkg/logger"
	"gorm.io/gorm"
)

// RetentionScheduler runs nightly cleanup: expired or revoked refresh tokens
// and activity-log rows past the retention window.
type RetentionScheduler struct {
	db   *gorm.DB
	cfg  *config.RetentionConfig
	cron *cron.Cron
}

func NewRetentionScheduler(db *gorm.DB, cfg *config.RetentionConfig) *RetentionScheduler {
	return &RetentionScheduler{db: db, cfg: cfg, cron: cron.New()}
}

// Start schedules the nightly run and performs one cleanup immediately.
func (s *RetentionScheduler) Start() error {
	if _, err := s.cron.AddFunc("30 3 * * *", s.run); err != nil {
		return err
	}
	s.cron.Start()

	go s.run()
	return nil
}

// Stop halts the scheduler; a run in progress completes.
func (s *RetentionScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *RetentionScheduler) run() {
	ctx := context.Background()

	tokens := s.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", time.Now()).
		Delete(&models.RefreshToken{})
	if tokens.Error != nil {
		logger.Error().Err(tokens.Error).Msg("refresh token cleanup failed")
	}

	logs, err := NewActivityLogService(s.db).PurgeOlderThan(ctx, s.cfg.ActivityLogDays)
	if err != nil {
		logger.Error().Err(err).Msg("activity log cleanup failed")
	}

	logger.Info().
		Int64("refresh_tokens", tokens.RowsAffected).
		Int64("activity_logs", logs).
		Msg("retention cleanup complete")
}
