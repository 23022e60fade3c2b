package models

import (
	"fmt"

	"github.com/teamtrack/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// uniqueness races on memberships/assignments surface as
		// gorm.ErrDuplicatedKey instead of driver-specific errors
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return MigrateSchema(DB)
}

// MigrateSchema creates the full schema on the given connection.
func MigrateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Project{},
		&Membership{},
		&Task{},
		&Label{},
		&Assignment{},
		&Comment{},
		&RefreshToken{},
		&ActivityLog{},
	)
	if err != nil {
		return err
	}

	// At most one non-ended membership per (project, user). GORM tags cannot
	// express a partial index, so it is created here. MySQL has no partial
	// indexes; there the services-layer pre-check is the only guard.
	if db.Dialector.Name() != "mysql" {
		err = db.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_membership_current_pair " +
				"ON memberships (project_id, user_id) WHERE ended_at IS NULL",
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// VisibleProjects scopes a query to projects that are not soft-deleted.
// Centralizes the visibility predicate so deletion never leaks into
// member-facing reads.
func VisibleProjects(db *gorm.DB) *gorm.DB {
	return db.Where("projects.deleted_at IS NULL")
}

// VisibleTasks scopes a query to tasks that are not soft-deleted.
func VisibleTasks(db *gorm.DB) *gorm.DB {
	return db.Where("tasks.deleted_at IS NULL")
}

// CurrentMemberships scopes a query to memberships that are not ended,
// pending invitations included.
func CurrentMemberships(db *gorm.DB) *gorm.DB {
	return db.Where("memberships.ended_at IS NULL")
}

// ActiveMemberships scopes a query to joined, non-ended memberships.
func ActiveMemberships(db *gorm.DB) *gorm.DB {
	return db.Where("memberships.ended_at IS NULL AND memberships.joined_at IS NOT NULL")
}
