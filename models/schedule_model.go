package models

import "time"

// Schedule run status values.
const (
	ScheduleRunPassed  = "passed"
	ScheduleRunFailed  = "failed"
	ScheduleRunPartial = "partial"
)

// ConnectionTestSchedule holds the cron-driven recurring health check
// configuration for one Application. At most one schedule exists per
// application.
type ConnectionTestSchedule struct {
	ID             uint       `gorm:"primaryKey;column:id" json:"id"`
	ApplicationID  uint       `gorm:"column:application_id;unique" json:"application_id" validate:"required"`
	CronExpression string     `gorm:"column:cron_expression" json:"cron_expression" validate:"required,max=100"`
	Enabled        bool       `gorm:"column:enabled;default:true" json:"enabled"`
	LastRunAt      *time.Time `gorm:"column:last_run_at" json:"last_run_at,omitempty"`
	LastRunStatus  string     `gorm:"column:last_run_status" json:"last_run_status"`
	LastRunMessage string     `gorm:"column:last_run_message" json:"last_run_message"`
	LastRunMillis  int64      `gorm:"column:last_run_millis" json:"last_run_millis"`
	NextRunAt      *time.Time `gorm:"column:next_run_at;index" json:"next_run_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the static table name for GORM.
func (ConnectionTestSchedule) TableName() string {
	return "connection_test_schedules"
}
