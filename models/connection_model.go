package models

import "time"

// Connection status values recorded after health probes.
const (
	ConnectionStatusUntested = "untested"
	ConnectionStatusHealthy  = "healthy"
	ConnectionStatusFailed   = "failed"
)

// DatabaseConnection is a typed endpoint descriptor for a relational DB,
// NoSQL store, cloud service, or API belonging to one Application.
// Password, ConnectionString and APIKey hold secrets and are never
// serialized to JSON; responses expose masked forms via DTOs.
type DatabaseConnection struct {
	ID               uint           `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID    uint           `gorm:"column:application_id;index" json:"application_id" validate:"required"`
	Name             string         `gorm:"column:name" json:"name" validate:"required,max=100"`
	Type             ConnectionType `gorm:"column:type" json:"type" validate:"required"`
	Host             string         `gorm:"column:host" json:"host" validate:"max=253"`
	Port             int            `gorm:"column:port" json:"port"`
	DatabaseName     string         `gorm:"column:database_name" json:"database_name" validate:"max=128"`
	Username         string         `gorm:"column:username" json:"username" validate:"max=128"`
	Password         string         `gorm:"column:password" json:"-"`
	ConnectionString string         `gorm:"column:connection_string" json:"-"`
	APIKey           string         `gorm:"column:api_key" json:"-"`
	UseSSL           bool           `gorm:"column:use_ssl;default:false" json:"use_ssl"`
	Status           string         `gorm:"column:status;default:untested" json:"status"`
	LastTestedAt     *time.Time     `gorm:"column:last_tested_at" json:"last_tested_at,omitempty"`
	LastTestSuccess  bool           `gorm:"column:last_test_success" json:"last_test_success"`
	LastTestMessage  string         `gorm:"column:last_test_message" json:"last_test_message"`
	LastTestMillis   int64          `gorm:"column:last_test_millis" json:"last_test_millis"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (DatabaseConnection) TableName() string {
	return "database_connections"
}
