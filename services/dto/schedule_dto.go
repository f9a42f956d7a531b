package dto

import (
	"time"

	"camsapi/models"
)

// ScheduleRequest upserts the connection test schedule for an application.
type ScheduleRequest struct {
	CronExpression string `json:"cron_expression" validate:"required"`
	Enabled        bool   `json:"enabled"`
}

// ScheduleResponse is the outward representation of a schedule.
type ScheduleResponse struct {
	ID             uint       `json:"id"`
	ApplicationID  uint       `json:"application_id"`
	CronExpression string     `json:"cron_expression"`
	Enabled        bool       `json:"enabled"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	LastRunStatus  string     `json:"last_run_status"`
	LastRunMessage string     `json:"last_run_message"`
	LastRunMillis  int64      `json:"last_run_millis"`
	NextRunAt      *time.Time `json:"next_run_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FromSchedule maps a schedule entity to its response DTO.
func FromSchedule(s *models.ConnectionTestSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:             s.ID,
		ApplicationID:  s.ApplicationID,
		CronExpression: s.CronExpression,
		Enabled:        s.Enabled,
		LastRunAt:      s.LastRunAt,
		LastRunStatus:  s.LastRunStatus,
		LastRunMessage: s.LastRunMessage,
		LastRunMillis:  s.LastRunMillis,
		NextRunAt:      s.NextRunAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
