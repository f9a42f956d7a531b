package models

import "time"

// AuditLog records a mutation performed through the API: who did what to
// which entity. Append-only.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID     uint      `gorm:"column:user_id;index" json:"user_id"`
	Username   string    `gorm:"column:username" json:"username"`
	Action     string    `gorm:"column:action" json:"action"`
	EntityType string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID   uint      `gorm:"column:entity_id" json:"entity_id"`
	Details    string    `gorm:"column:details;type:text" json:"details"`
	IPAddress  string    `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the static table name for GORM.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Security event types.
const (
	SecurityEventLoginSuccess  = "login_success"
	SecurityEventLoginFailure  = "login_failure"
	SecurityEventTokenRefresh  = "token_refresh"
	SecurityEventAccessDenied  = "access_denied"
	SecurityEventLogout        = "logout"
	SecurityEventPasswordReset = "password_change"
)

// SecurityLog records authentication and authorization events. Append-only.
type SecurityLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	EventType string    `gorm:"column:event_type;index" json:"event_type"`
	UserID    uint      `gorm:"column:user_id;index" json:"user_id"`
	Username  string    `gorm:"column:username" json:"username"`
	IPAddress string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent string    `gorm:"column:user_agent" json:"user_agent"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the static table name for GORM.
func (SecurityLog) TableName() string {
	return "security_logs"
}

// SystemLog records internal component events. Append-only.
type SystemLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	Level     string    `gorm:"column:level;index" json:"level"`
	Source    string    `gorm:"column:source" json:"source"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the static table name for GORM.
func (SystemLog) TableName() string {
	return "system_logs"
}

// PerformanceLog records per-request timing. Append-only.
type PerformanceLog struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"id"`
	Endpoint   string    `gorm:"column:endpoint" json:"endpoint"`
	Method     string    `gorm:"column:method" json:"method"`
	StatusCode int       `gorm:"column:status_code" json:"status_code"`
	DurationMs int64     `gorm:"column:duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName specifies the static table name for GORM.
func (PerformanceLog) TableName() string {
	return "performance_logs"
}
