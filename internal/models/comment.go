package models

import "time"

// Comment is a member's note on a task. Content is sanitized before it
// reaches the database.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"` // author
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// CanModify reports whether the acting user may edit or delete the comment:
// the author, or a global administrator.
func (c *Comment) CanModify(userID uint, isAdmin bool) bool {
	return isAdmin || c.UserID == userID
}
