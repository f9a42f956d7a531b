package repository

import (
	"time"

	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// ScheduleRepository provides data access operations for connection test schedules.
type ScheduleRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.ConnectionTestSchedule, error)
	GetByApplicationID(tx *gorm.DB, appID uint) (*models.ConnectionTestSchedule, error)
	// ListDue returns enabled schedules whose next run time is at or before now.
	ListDue(tx *gorm.DB, now time.Time) ([]models.ConnectionTestSchedule, error)
	Create(tx *gorm.DB, s *models.ConnectionTestSchedule) error
	Update(tx *gorm.DB, s *models.ConnectionTestSchedule) error
	DeleteByApplicationID(tx *gorm.DB, appID uint) error
	UpdateRunResult(tx *gorm.DB, id uint, runAt time.Time, status, message string, millis int64, nextRun time.Time) error
}

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository instance.
func NewScheduleRepository() ScheduleRepository {
	return &scheduleRepository{
		db: config.DB,
	}
}

func (r *scheduleRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *scheduleRepository) GetByID(tx *gorm.DB, id uint) (*models.ConnectionTestSchedule, error) {
	var s models.ConnectionTestSchedule
	if err := r.conn(tx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) GetByApplicationID(tx *gorm.DB, appID uint) (*models.ConnectionTestSchedule, error) {
	var s models.ConnectionTestSchedule
	if err := r.conn(tx).Where("application_id = ?", appID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) ListDue(tx *gorm.DB, now time.Time) ([]models.ConnectionTestSchedule, error) {
	var due []models.ConnectionTestSchedule
	err := r.conn(tx).
		Where("enabled = ? AND next_run_at IS NOT NULL AND next_run_at <= ?", true, now).
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	return due, nil
}

func (r *scheduleRepository) Create(tx *gorm.DB, s *models.ConnectionTestSchedule) error {
	return r.conn(tx).Create(s).Error
}

func (r *scheduleRepository) Update(tx *gorm.DB, s *models.ConnectionTestSchedule) error {
	return r.conn(tx).Save(s).Error
}

func (r *scheduleRepository) DeleteByApplicationID(tx *gorm.DB, appID uint) error {
	return r.conn(tx).Where("application_id = ?", appID).
		Delete(&models.ConnectionTestSchedule{}).Error
}

func (r *scheduleRepository) UpdateRunResult(tx *gorm.DB, id uint, runAt time.Time, status, message string, millis int64, nextRun time.Time) error {
	return r.conn(tx).Model(&models.ConnectionTestSchedule{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run_at":      runAt,
			"last_run_status":  status,
			"last_run_message": message,
			"last_run_millis":  millis,
			"next_run_at":      nextRun,
		}).Error
}
