package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db     *gorm.DB
	policy *PolicyService
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, policy: NewPolicyService(db)}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// Create adds a comment authored by the actor. Any active member of the
// task's project may comment; the task must be visible.
func (s *CommentService) Create(ctx context.Context, actor Actor, taskID uint, req *CommentRequest) (*models.Comment, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Scopes(models.VisibleTasks).
		First(&task, taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.policy.RequireActiveMember(ctx, task.ProjectID, actor); err != nil {
		return nil, err
	}

	content := SanitizeHTML(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidArgument
	}

	comment := models.Comment{
		TaskID:  taskID,
		UserID:  actor.ID,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Get loads a comment by id. Comments stay retrievable even after their task
// is soft-deleted.
func (s *CommentService) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Preload("User").First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Edit replaces the comment content. Author or admin only.
func (s *CommentService) Edit(ctx context.Context, actor Actor, id uint, req *CommentRequest) (*models.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.CanModify(actor.ID, actor.Admin) {
		return nil, ErrUnauthorized
	}

	content := SanitizeHTML(req.Content)
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidArgument
	}

	comment.Content = content
	comment.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment. Author or admin only.
func (s *CommentService) Delete(ctx context.Context, actor Actor, id uint) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !comment.CanModify(actor.ID, actor.Admin) {
		return ErrUnauthorized
	}

	return s.db.WithContext(ctx).Delete(comment).Error
}
