package models

import "time"

// User represents an account able to authenticate and own applications.
// PasswordHash and refresh token fields are never serialized to JSON.
type User struct {
	ID                 uint       `gorm:"primaryKey;column:id" json:"id"`
	Username           string     `gorm:"column:username;unique" json:"username" validate:"required,max=50"`
	Email              string     `gorm:"column:email;unique" json:"email" validate:"required,email,max=255"`
	PasswordHash       string     `gorm:"column:password_hash" json:"-"`
	FirstName          string     `gorm:"column:first_name" json:"first_name" validate:"max=100"`
	LastName           string     `gorm:"column:last_name" json:"last_name" validate:"max=100"`
	Active             bool       `gorm:"column:active;default:true" json:"active"`
	RefreshToken       string     `gorm:"column:refresh_token" json:"-"`
	RefreshTokenExpiry *time.Time `gorm:"column:refresh_token_expiry" json:"-"`
	LastLoginAt        *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	UserRoles    []UserRole    `gorm:"foreignKey:UserID" json:"user_roles,omitempty"`
	Applications []Application `gorm:"foreignKey:OwnerID" json:"applications,omitempty"`
}

// TableName specifies the static table name for GORM.
// Required to override GORM's default pluralization behavior.
func (User) TableName() string {
	return "users"
}
