package services

import (
	"context"
	"errors"
	"strings"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type LabelService struct {
	db     *gorm.DB
	policy *PolicyService
}

func NewLabelService(db *gorm.DB) *LabelService {
	return &LabelService{db: db, policy: NewPolicyService(db)}
}

type LabelRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// Create adds a project-scoped label. Organizer only.
func (s *LabelService) Create(ctx context.Context, actor Actor, projectID uint, req *LabelRequest) (*models.Label, error) {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidArgument
	}

	label := models.Label{
		ProjectID: projectID,
		Name:      req.Name,
		Color:     req.Color,
	}
	if err := s.db.WithContext(ctx).Create(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

// List returns the project's labels. Any member may list.
func (s *LabelService) List(ctx context.Context, actor Actor, projectID uint) ([]models.Label, error) {
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

	var labels []models.Label
	err = s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("name ASC").
		Find(&labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// Delete removes a label and detaches it from any tasks. Organizer only.
func (s *LabelService) Delete(ctx context.Context, actor Actor, projectID, labelID uint) error {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("project_id = ?", projectID).Delete(&models.Label{}, labelID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Task{}).
			Where("label_id = ?", labelID).
			Update("label_id", nil).Error
	})
}

func (s *LabelService) visibleProject(ctx context.Context, id uint) (*models.Project, error) {
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
