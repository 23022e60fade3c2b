package services

import (
	"context"
	"errors"
	"time"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type TaskService struct {
	db     *gorm.DB
	policy *PolicyService
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, policy: NewPolicyService(db)}
}

type CreateTaskRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MediaURL    string     `json:"media_url" binding:"omitempty,url"`
	LabelID     *uint      `json:"label_id"`
}

type EditTaskRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MediaURL    string     `json:"media_url" binding:"omitempty,url"`
	LabelID     *uint      `json:"label_id"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Create builds a new active task with the initial status. Organizer only.
func (s *TaskService) Create(ctx context.Context, actor Actor, projectID uint, req *CreateTaskRequest) (*models.Task, error) {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	task := models.Task{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: SanitizeHTML(req.Description),
		Status:      models.TaskStatusTodo,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MediaURL:    req.MediaURL,
		LabelID:     req.LabelID,
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Get loads a visible task with its comments and label. Any member of the
// project may view.
func (s *TaskService) Get(ctx context.Context, actor Actor, projectID, taskID uint) (*models.Task, error) {
	if _, err := s.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}
	ok, err := s.policy.IsMember(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var task models.Task
	err = s.db.WithContext(ctx).
		Scopes(models.VisibleTasks).
		Where("project_id = ?", projectID).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC").Preload("User")
		}).
		Preload("Label").
		First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns the visible tasks of a project.
func (s *TaskService) List(ctx context.Context, actor Actor, projectID uint) ([]models.Task, error) {
	if _, err := s.visibleProject(ctx, projectID); err != nil {
		return nil, err
	}
	ok, err := s.policy.IsMember(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}

	var tasks []models.Task
	err = s.db.WithContext(ctx).
		Scopes(models.VisibleTasks).
		Where("project_id = ?", projectID).
		Preload("Label").
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Edit mutates task fields while the task is active. Organizer only;
// editing a deleted task fails with ErrInvalidState.
func (s *TaskService) Edit(ctx context.Context, actor Actor, projectID, taskID uint, req *EditTaskRequest) (*models.Task, error) {
	task, project, err := s.loadForMutation(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	edit := models.TaskEdit{
		Name:        req.Name,
		Description: SanitizeHTML(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MediaURL:    req.MediaURL,
		LabelID:     req.LabelID,
	}
	if err := task.ApplyEdit(edit, time.Now()); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// ChangeStatus moves the task between enumerated statuses. Any active
// member; no ordering is enforced between statuses.
func (s *TaskService) ChangeStatus(ctx context.Context, actor Actor, projectID, taskID uint, status string) (*models.Task, error) {
	task, _, err := s.loadForMutation(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireActiveMember(ctx, projectID, actor); err != nil {
		return nil, err
	}

	if err := task.ChangeStatus(status, time.Now()); err != nil {
		if errors.Is(err, models.ErrUnknownStatus) {
			return nil, ErrInvalidArgument
		}
		return nil, ErrInvalidState
	}

	err = s.db.WithContext(ctx).Model(task).
		Updates(map[string]interface{}{"status": task.Status, "updated_at": task.UpdatedAt}).Error
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete soft-deletes the task. Organizer only. Comments and assignments are
// retained for audit.
func (s *TaskService) Delete(ctx context.Context, actor Actor, projectID, taskID uint) error {
	task, project, err := s.loadForMutation(ctx, projectID, taskID)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return err
	}
	if task.Deleted() {
		return ErrInvalidState
	}

	task.Delete(time.Now())
	return s.db.WithContext(ctx).Model(task).
		Update("deleted_at", task.DeletedAt).Error
}

// loadForMutation fetches the task including soft-deleted rows so callers
// can distinguish "gone" (ErrInvalidState) from "never existed"
// (ErrNotFound).
func (s *TaskService) loadForMutation(ctx context.Context, projectID, taskID uint) (*models.Task, *models.Project, error) {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	var task models.Task
	err = s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &task, project, nil
}

func (s *TaskService) visibleProject(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.WithContext(ctx).
		Scopes(models.VisibleProjects).
		First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}
