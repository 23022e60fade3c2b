package models

import (
	"errors"
	"time"
)

// Task statuses. Any-to-any status changes are allowed; status is orthogonal
// to the active/deleted lifecycle.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// ErrTaskDeleted is returned when a mutation targets a soft-deleted task.
var ErrTaskDeleted = errors.New("task is deleted")

// ErrUnknownStatus is returned for a status outside the enumerated set.
var ErrUnknownStatus = errors.New("unknown task status")

// Task belongs to exactly one project. Deletion is a terminal state recorded
// in DeletedAt; deleted tasks are hidden from member-facing queries but the
// row, its comments and its assignments are retained for audit.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProjectID   uint       `gorm:"not null;index" json:"project_id"`
	Project     *Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"` // sanitized HTML
	Status      string     `gorm:"size:50;default:todo" json:"status"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	MediaURL    string     `gorm:"size:500" json:"media_url"`
	LabelID     *uint      `json:"label_id"`
	Label       *Label     `gorm:"foreignKey:LabelID" json:"label,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Comments    []Comment    `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
	Assignments []Assignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// ValidTaskStatus reports whether s is one of the enumerated statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Deleted reports whether the task has been soft-deleted.
func (t *Task) Deleted() bool { return t.DeletedAt != nil }

// TaskEdit carries the mutable fields of a task.
type TaskEdit struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	MediaURL    string
	LabelID     *uint
}

// ApplyEdit mutates the task fields and refreshes the update timestamp.
// Editing a deleted task is refused.
func (t *Task) ApplyEdit(e TaskEdit, now time.Time) error {
	if t.Deleted() {
		return ErrTaskDeleted
	}
	t.Name = e.Name
	t.Description = e.Description
	t.StartDate = e.StartDate
	t.EndDate = e.EndDate
	t.MediaURL = e.MediaURL
	t.LabelID = e.LabelID
	t.UpdatedAt = now
	return nil
}

// ChangeStatus moves the task to any enumerated status while active.
func (t *Task) ChangeStatus(status string, now time.Time) error {
	if t.Deleted() {
		return ErrTaskDeleted
	}
	if !ValidTaskStatus(status) {
		return ErrUnknownStatus
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// Delete marks the task deleted. Irreversible; repeated calls keep the
// original deletion time.
func (t *Task) Delete(now time.Time) {
	if t.DeletedAt == nil {
		t.DeletedAt = &now
	}
}
