package models

import (
	"time"
)

// User represents a system user
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string     `gorm:"size:255" json:"-"` // bcrypt hash
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string     `gorm:"size:200" json:"name"`
	Role      string     `gorm:"size:50;default:user" json:"role"` // admin, user
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the global administrator role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
