package models

import "time"

// Application is a user-owned logical grouping of external connections.
type Application struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	OwnerID     uint      `gorm:"column:owner_id;index" json:"owner_id" validate:"required"`
	Name        string    `gorm:"column:name" json:"name" validate:"required,max=100"`
	Description string    `gorm:"column:description" json:"description" validate:"max=500"`
	Version     string    `gorm:"column:version" json:"version" validate:"max=50"`
	Environment string    `gorm:"column:environment" json:"environment" validate:"max=50"`
	Active      bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Connections []DatabaseConnection `gorm:"foreignKey:ApplicationID" json:"connections,omitempty"`
}

// TableName specifies the static table name for GORM.
func (Application) TableName() string {
	return "applications"
}
