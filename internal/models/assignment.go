package models

import "time"

// Assignment links a user to a task. At most one per (task, user) pair; the
// unique index serializes concurrent assigns for the same pair.
type Assignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"uniqueIndex:idx_assignment_task_user;not null" json:"task_id"`
	Task      *Task     `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	UserID    uint      `gorm:"uniqueIndex:idx_assignment_task_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Assignment) TableName() string { return "assignments" }
