package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

type MembershipService struct {
	db     *gorm.DB
	policy *PolicyService
	queue  NotificationQueue
}

// NewMembershipService creates the service. queue may be nil; invitations
// are then created without a notification.
func NewMembershipService(db *gorm.DB, queue NotificationQueue) *MembershipService {
	return &MembershipService{db: db, policy: NewPolicyService(db), queue: queue}
}

type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"omitempty,oneof=organizer member"`
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=organizer member"`
}

// Add creates an active membership immediately, without an invitation step.
// Organizer only.
func (s *MembershipService) Add(ctx context.Context, actor Actor, projectID uint, req *AddMemberRequest) (*models.Membership, error) {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	membership := models.NewActiveMembership(projectID, user.ID, memberRole(req.Role), time.Now())
	if err := s.createUnique(ctx, &membership); err != nil {
		return nil, err
	}

	return &membership, nil
}

// Invite creates a pending membership for the user registered under the
// given email and queues an invitation notification. Organizer only.
func (s *MembershipService) Invite(ctx context.Context, actor Actor, projectID uint, req *InviteMemberRequest) (*models.Membership, error) {
	project, err := s.visibleProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	membership := models.NewPendingMembership(projectID, user.ID, memberRole(req.Role), token, time.Now())
	if err := s.createUnique(ctx, &membership); err != nil {
		return nil, err
	}

	if s.queue != nil {
		// enqueue after commit; delivery failure never fails the invite
		_ = s.queue.Enqueue(&InviteNotification{
			MembershipID: membership.ID,
			ProjectName:  project.Name,
			Email:        user.Email,
			InviteToken:  token,
		})
	}

	return &membership, nil
}

// Accept transitions a pending invitation to active. Only the invited user
// may accept.
func (s *MembershipService) Accept(ctx context.Context, actor Actor, membershipID uint) (*models.Membership, error) {
	membership, err := s.get(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if membership.UserID != actor.ID {
		return nil, ErrUnauthorized
	}

	if err := membership.Accept(time.Now()); err != nil {
		return nil, ErrInvalidTransition
	}

	err = s.db.WithContext(ctx).Model(membership).
		Updates(map[string]interface{}{
			"joined_at":    membership.JoinedAt,
			"invite_token": "",
		}).Error
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// End terminates a pending or active membership: members may leave, the
// project organizer may revoke. Ended is terminal.
func (s *MembershipService) End(ctx context.Context, actor Actor, membershipID uint) error {
	membership, err := s.get(ctx, membershipID)
	if err != nil {
		return err
	}

	if membership.UserID != actor.ID {
		project, err := s.visibleProject(ctx, membership.ProjectID)
		if err != nil {
			return err
		}
		if err := s.policy.RequireOrganizer(ctx, project, actor); err != nil {
			return err
		}
	}

	if err := membership.End(time.Now()); err != nil {
		return ErrInvalidTransition
	}

	return s.db.WithContext(ctx).Model(membership).
		Updates(map[string]interface{}{
			"ended_at":     membership.EndedAt,
			"invite_token": "",
		}).Error
}

// List returns non-ended memberships of a project with user info. Any
// member may list, pending invitees included.
func (s *MembershipService) List(ctx context.Context, actor Actor, projectID uint) ([]models.Membership, error) {
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

	var memberships []models.Membership
	err = s.db.WithContext(ctx).
		Scopes(models.CurrentMemberships).
		Where("project_id = ?", projectID).
		Preload("User").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// createUnique inserts a membership after checking for an existing non-ended
// one. A unique-key conflict from a concurrent insert is reported the same
// way as the pre-check.
func (s *MembershipService) createUnique(ctx context.Context, m *models.Membership) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Scopes(models.CurrentMemberships).
		Where("project_id = ? AND user_id = ?", m.ProjectID, m.UserID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateMembership
	}

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

func (s *MembershipService) get(ctx context.Context, id uint) (*models.Membership, error) {
	var membership models.Membership
	err := s.db.WithContext(ctx).First(&membership, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *MembershipService) visibleProject(ctx context.Context, id uint) (*models.Project, error) {
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

func memberRole(role string) string {
	if role == models.MemberRoleOrganizer {
		return models.MemberRoleOrganizer
	}
	return models.MemberRoleMember
}
