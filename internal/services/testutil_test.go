package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/utils"
	"github.com/teamtrack/backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	utils.SetJWTSecret("test-secret")
	logger.Init("error")
}

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// a second pooled connection would see its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.MigrateSchema(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

var userSeq int

// createUser inserts a plain user and returns it.
func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	userSeq++
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s%d@example.com", username, userSeq),
		Name:     username,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// createProject makes organizer the project's creator with the implicit
// active organizer membership.
func createProject(t *testing.T, db *gorm.DB, organizer *models.User, name string) *models.Project {
	t.Helper()
	svc := NewProjectService(db)
	project, err := svc.Create(context.Background(), Actor{ID: organizer.ID}, &CreateProjectRequest{
		Name:    name,
		Summary: "summary of " + name,
	})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return project
}

// addActiveMember enrolls the user directly as an active member.
func addActiveMember(t *testing.T, db *gorm.DB, organizer *models.User, projectID uint, user *models.User) *models.Membership {
	t.Helper()
	svc := NewMembershipService(db, nil)
	m, err := svc.Add(context.Background(), Actor{ID: organizer.ID}, projectID, &AddMemberRequest{UserID: user.ID})
	if err != nil {
		t.Fatalf("add member %d: %v", user.ID, err)
	}
	return m
}

// invitePending creates a pending invitation for the user.
func invitePending(t *testing.T, db *gorm.DB, organizer *models.User, projectID uint, user *models.User) *models.Membership {
	t.Helper()
	svc := NewMembershipService(db, nil)
	m, err := svc.Invite(context.Background(), Actor{ID: organizer.ID}, projectID, &InviteMemberRequest{Email: user.Email})
	if err != nil {
		t.Fatalf("invite member %d: %v", user.ID, err)
	}
	return m
}

// createTask adds a task as the organizer.
func createTask(t *testing.T, db *gorm.DB, organizer *models.User, projectID uint, name string) *models.Task {
	t.Helper()
	svc := NewTaskService(db)
	task, err := svc.Create(context.Background(), Actor{ID: organizer.ID}, projectID, &CreateTaskRequest{Name: name})
	if err != nil {
		t.Fatalf("create task %s: %v", name, err)
	}
	return task
}
