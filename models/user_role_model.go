package models

import "time"

// UserRole joins users to roles with assignment metadata. A membership is
// effective only when both UserRole.Active and the referenced Role.Active
// are true.
type UserRole struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID     uint      `gorm:"column:user_id;uniqueIndex:idx_user_role" json:"user_id" validate:"required"`
	RoleID     uint      `gorm:"column:role_id;uniqueIndex:idx_user_role" json:"role_id" validate:"required"`
	AssignedBy uint      `gorm:"column:assigned_by" json:"assigned_by"`
	AssignedAt time.Time `gorm:"column:assigned_at;autoCreateTime" json:"assigned_at"`
	Active     bool      `gorm:"column:active;default:true" json:"active"`

	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName specifies the static table name for GORM.
func (UserRole) TableName() string {
	return "user_roles"
}
