package models

import (
	"errors"
	"time"
)

// MembershipState is derived from the joined/ended timestamps, never stored.
type MembershipState string

const (
	MembershipPending MembershipState = "pending" // invited, not yet accepted
	MembershipActive  MembershipState = "active"  // joined, participating
	MembershipEnded   MembershipState = "ended"   // left, removed or declined
)

// Membership roles within a project. An organizer-role membership grants the
// same capability as being the project's creating organizer.
const (
	MemberRoleOrganizer = "organizer"
	MemberRoleMember    = "member"
)

// ErrMembershipTransition is returned by Accept/End on a state-machine
// violation.
var ErrMembershipTransition = errors.New("invalid membership transition")

// Membership ties a user to a project. At most one non-ended membership may
// exist per (project, user) pair; the services layer checks this and the
// database unique index backs it up under concurrency.
type Membership struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"index:idx_membership_project_user;not null" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	UserID      uint       `gorm:"index:idx_membership_project_user;not null" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        string     `gorm:"size:50;default:member" json:"role"`
	InviteToken string     `gorm:"size:64;index" json:"-"` // set while pending
	InvitedAt   time.Time  `json:"invited_at"`
	JoinedAt    *time.Time `json:"joined_at"`
	EndedAt     *time.Time `json:"ended_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }

// NewActiveMembership creates a membership that is active immediately, used
// for the organizer on project creation and for direct adds.
func NewActiveMembership(projectID, userID uint, role string, now time.Time) Membership {
	return Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		InvitedAt: now,
		JoinedAt:  &now,
	}
}

// NewPendingMembership creates an invitation awaiting acceptance.
func NewPendingMembership(projectID, userID uint, role, inviteToken string, now time.Time) Membership {
	return Membership{
		ProjectID:   projectID,
		UserID:      userID,
		Role:        role,
		InviteToken: inviteToken,
		InvitedAt:   now,
	}
}

// State derives the current lifecycle state.
func (m *Membership) State() MembershipState {
	switch {
	case m.EndedAt != nil:
		return MembershipEnded
	case m.JoinedAt != nil:
		return MembershipActive
	default:
		return MembershipPending
	}
}

// Accept transitions a pending invitation to active.
func (m *Membership) Accept(now time.Time) error {
	if m.State() != MembershipPending {
		return ErrMembershipTransition
	}
	m.JoinedAt = &now
	m.InviteToken = ""
	return nil
}

// End terminates a pending or active membership. Ended is terminal, so a
// second End is refused.
func (m *Membership) End(now time.Time) error {
	if m.State() == MembershipEnded {
		return ErrMembershipTransition
	}
	m.EndedAt = &now
	m.InviteToken = ""
	return nil
}

// IsOrganizerRole reports whether this membership grants organizer capability.
func (m *Membership) IsOrganizerRole() bool {
	return m.Role == MemberRoleOrganizer
}
