package models

import "time"

// Well-known system role names seeded at bootstrap.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleViewer  = "Viewer"
)

// Role represents a named permission group. System roles are seeded at
// startup and cannot be renamed or deleted.
type Role struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;unique" json:"name" validate:"required,max=50"`
	Description string    `gorm:"column:description" json:"description" validate:"max=255"`
	System      bool      `gorm:"column:is_system;default:false" json:"is_system"`
	Active      bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (Role) TableName() string {
	return "roles"
}
