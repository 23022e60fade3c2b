package services

import (
	"context"
	"errors"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type AssignmentService struct {
	db     *gorm.DB
	policy *PolicyService
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{db: db, policy: NewPolicyService(db)}
}

type AssignRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Assign creates an assignment of the user to the task. Organizer only.
// The assignee must hold an active membership in the task's project; at most
// one assignment exists per (task, user) pair.
func (s *AssignmentService) Assign(ctx context.Context, actor Actor, projectID, taskID, userID uint) (*models.Assignment, error) {
	task, project, err := s.visibleTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	eligible, err := s.policy.IsActiveMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrNotEligible
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("task_id = ? AND user_id = ?", task.ID, userID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyAssigned
	}

	assignment := models.Assignment{TaskID: task.ID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		// concurrent assign for the same pair loses on the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAssigned
		}
		return nil, err
	}
	return &assignment, nil
}

// Unassign removes the user's assignment from the task. Organizer only.
func (s *AssignmentService) Unassign(ctx context.Context, actor Actor, projectID, taskID, userID uint) error {
	task, project, err := s.visibleTask(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", task.ID, userID).
		Delete(&models.Assignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UnassignedEligibleMembers returns the users with an active membership in
// the project who are not yet assigned to the task. Result order is
// unspecified.
func (s *AssignmentService) UnassignedEligibleMembers(ctx context.Context, actor Actor, projectID, taskID uint) ([]models.User, error) {
	if _, _, err := s.visibleTask(ctx, projectID, taskID); err != nil {
		return nil, err
	}
	ok, err := s.policy.IsMember(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var users []models.User
	err = s.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.user_id = users.id").
		Scopes(models.ActiveMemberships).
		Where("memberships.project_id = ?", projectID).
		Where("users.id NOT IN (?)",
			s.db.Model(&models.Assignment{}).Select("user_id").Where("task_id = ?", taskID)).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AssignmentService) visibleTask(ctx context.Context, projectID, taskID uint) (*models.Task, *models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Scopes(models.VisibleProjects).
		First(&project, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var task models.Task
	err = s.db.WithContext(ctx).
		Scopes(models.VisibleTasks).
		Where("project_id = ?", projectID).
		First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &task, &project, nil
}
