package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type ProjectService struct {
	db     *gorm.DB
	policy *PolicyService
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db, policy: NewPolicyService(db)}
}

type CreateProjectRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=128"`
	Summary string `json:"summary" binding:"required,min=1,max=256"`
}

type UpdateProjectRequest struct {
	Name    string `json:"name" binding:"omitempty,max=128"`
	Summary string `json:"summary" binding:"omitempty,max=256"`
}

// Create constructs a project together with the organizer's active
// membership in a single transaction; a project is never observable without
// its organizer membership.
func (s *ProjectService) Create(ctx context.Context, actor Actor, req *CreateProjectRequest) (*models.Project, error) {
	// binding validates lengths upstream; blank values are refused here as a
	// last line of defense
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Summary) == "" {
		return nil, ErrInvalidArgument
	}

	now := time.Now()
	project := models.Project{
		OrganizerID: actor.ID,
		Name:        req.Name,
		Summary:     req.Summary,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		membership := models.NewActiveMembership(project.ID, actor.ID, models.MemberRoleOrganizer, now)
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	return &project, nil
}

// List returns the projects in which the actor holds a non-ended membership,
// soft-deleted projects excluded.
func (s *ProjectService) List(ctx context.Context, actor Actor) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.WithContext(ctx).
		Scopes(models.VisibleProjects, models.CurrentMemberships).
		Joins("JOIN memberships ON memberships.project_id = projects.id").
		Where("memberships.user_id = ?", actor.ID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Get loads a visible project the actor is a member of. Pending invitees may
// view the project they were invited to.
func (s *ProjectService) Get(ctx context.Context, actor Actor, id uint) (*models.Project, error) {
	project, err := s.getVisible(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.policy.IsMember(ctx, project.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return project, nil
}

// Update changes name/summary. Organizer only.
func (s *ProjectService) Update(ctx context.Context, actor Actor, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	project, err := s.getVisible(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if strings.TrimSpace(req.Name) != "" {
		updates["name"] = req.Name
	}
	if strings.TrimSpace(req.Summary) != "" {
		updates["summary"] = req.Summary
	}
	if len(updates) == 0 {
		return project, nil
	}
	updates["updated_at"] = time.Now()

	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// Delete soft-deletes the project. Organizer only. Memberships, tasks and
// their comment history are retained for audit.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, id uint) error {
	project, err := s.getVisible(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return err
	}

	project.Delete(time.Now())
	return s.db.WithContext(ctx).Model(project).
		Update("deleted_at", project.DeletedAt).Error
}

func (s *ProjectService) getVisible(ctx context.Context, id uint) (*models.Project, error) {
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
