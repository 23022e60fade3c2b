package services

import (
	"context"
	"errors"

	"github.com/teamtrack/backend/internal/models"
	"gorm.io/gorm"
)

// Actor is the identity every operation runs under. It is passed explicitly
// instead of read from ambient state so services stay testable without HTTP.
type Actor struct {
	ID    uint
	Admin bool
}

// PolicyService answers capability questions about actors and projects.
// Global admin status never substitutes for organizer capability; it only
// relaxes comment ownership.
type PolicyService struct {
	db *gorm.DB
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db}
}

// currentMembership loads the user's non-ended membership in the project, if
// any. At most one exists.
func (p *PolicyService) currentMembership(ctx context.Context, projectID, userID uint) (*models.Membership, error) {
	var membership models.Membership
	err := p.db.WithContext(ctx).
		Scopes(models.CurrentMemberships).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// IsMember reports whether the user holds a non-ended membership in the
// project. Pending invitees count as members for read access.
func (p *PolicyService) IsMember(ctx context.Context, projectID, userID uint) (bool, error) {
	m, err := p.currentMembership(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// IsActiveMember reports whether the user holds a joined, non-ended
// membership in the project.
func (p *PolicyService) IsActiveMember(ctx context.Context, projectID, userID uint) (bool, error) {
	m, err := p.currentMembership(ctx, projectID, userID)
	if err != nil {
		return false, err
	}
	return m != nil && m.State() == models.MembershipActive, nil
}

// IsOrganizer reports whether the user is the project's creating organizer
// or holds an active organizer-role membership.
func (p *PolicyService) IsOrganizer(ctx context.Context, project *models.Project, userID uint) (bool, error) {
	if project.OrganizerID == userID {
		return true, nil
	}
	m, err := p.currentMembership(ctx, project.ID, userID)
	if err != nil {
		return false, err
	}
	return m != nil && m.State() == models.MembershipActive && m.IsOrganizerRole(), nil
}

// RequireActiveMember fails with ErrUnauthorized unless the actor is an
// active member of the project.
func (p *PolicyService) RequireActiveMember(ctx context.Context, projectID uint, actor Actor) error {
	ok, err := p.IsActiveMember(ctx, projectID, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// RequireOrganizer fails with ErrUnauthorized unless the actor holds
// organizer capability for the project. Admins get no bypass here.
func (p *PolicyService) RequireOrganizer(ctx context.Context, project *models.Project, actor Actor) error {
	ok, err := p.IsOrganizer(ctx, project, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
