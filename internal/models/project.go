package models

import (
	"time"
)

// Project is the aggregate root for memberships and tasks. The user who
// created it is its organizer and always holds an Active membership created
// in the same transaction.
type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrganizerID uint       `gorm:"not null;index" json:"organizer_id"`
	Organizer   *User      `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Summary     string     `gorm:"size:256;not null" json:"summary"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Memberships []Membership `gorm:"foreignKey:ProjectID" json:"memberships,omitempty"`
	Tasks       []Task       `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

func (Project) TableName() string { return "projects" }

// Deleted reports whether the project has been soft-deleted.
func (p *Project) Deleted() bool { return p.DeletedAt != nil }

// Delete marks the project deleted. The row is kept for audit.
func (p *Project) Delete(now time.Time) {
	if p.DeletedAt == nil {
		p.DeletedAt = &now
	}
}
