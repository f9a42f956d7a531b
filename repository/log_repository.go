package repository

import (
	"time"

	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// LogFilter narrows log listings. Zero values mean "no filter".
type LogFilter struct {
	UserID uint
	Match  string // action for audit, event type for security, level for system
	From   time.Time
	To     time.Time
}

// LogRepository provides append and query operations for the four log tables.
type LogRepository interface {
	InsertAudit(tx *gorm.DB, entry *models.AuditLog) error
	InsertSecurity(tx *gorm.DB, entry *models.SecurityLog) error
	InsertSystem(tx *gorm.DB, entry *models.SystemLog) error
	InsertPerformance(tx *gorm.DB, entry *models.PerformanceLog) error

	ListAudit(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.AuditLog, int64, error)
	ListSecurity(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.SecurityLog, int64, error)
	ListSystem(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.SystemLog, int64, error)
	ListPerformance(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.PerformanceLog, int64, error)

	DeleteAuditBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
	DeleteSecurityBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
	DeleteSystemBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
	DeletePerformanceBefore(tx *gorm.DB, cutoff time.Time) (int64, error)
}

type logRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new log repository instance.
func NewLogRepository() LogRepository {
	return &logRepository{
		db: config.DB,
	}
}

func (r *logRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *logRepository) InsertAudit(tx *gorm.DB, entry *models.AuditLog) error {
	return r.conn(tx).Create(entry).Error
}

func (r *logRepository) InsertSecurity(tx *gorm.DB, entry *models.SecurityLog) error {
	return r.conn(tx).Create(entry).Error
}

func (r *logRepository) InsertSystem(tx *gorm.DB, entry *models.SystemLog) error {
	return r.conn(tx).Create(entry).Error
}

func (r *logRepository) InsertPerformance(tx *gorm.DB, entry *models.PerformanceLog) error {
	return r.conn(tx).Create(entry).Error
}

func applyTimeRange(db *gorm.DB, f LogFilter) *gorm.DB {
	if !f.From.IsZero() {
		db = db.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		db = db.Where("created_at <= ?", f.To)
	}
	return db
}

func (r *logRepository) ListAudit(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.AuditLog, int64, error) {
	db := applyTimeRange(r.conn(tx).Model(&models.AuditLog{}), f)
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Match != "" {
		db = db.Where("action = ?", f.Match)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.AuditLog
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *logRepository) ListSecurity(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.SecurityLog, int64, error) {
	db := applyTimeRange(r.conn(tx).Model(&models.SecurityLog{}), f)
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Match != "" {
		db = db.Where("event_type = ?", f.Match)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.SecurityLog
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *logRepository) ListSystem(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.SystemLog, int64, error) {
	db := applyTimeRange(r.conn(tx).Model(&models.SystemLog{}), f)
	if f.Match != "" {
		db = db.Where("level = ?", f.Match)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.SystemLog
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *logRepository) ListPerformance(tx *gorm.DB, f LogFilter, offset, limit int) ([]models.PerformanceLog, int64, error) {
	db := applyTimeRange(r.conn(tx).Model(&models.PerformanceLog{}), f)
	if f.Match != "" {
		db = db.Where("endpoint = ?", f.Match)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.PerformanceLog
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *logRepository) DeleteAuditBefore(tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.conn(tx).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return res.RowsAffected, res.Error
}

func (r *logRepository) DeleteSecurityBefore(tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.conn(tx).Where("created_at < ?", cutoff).Delete(&models.SecurityLog{})
	return res.RowsAffected, res.Error
}

func (r *logRepository) DeleteSystemBefore(tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.conn(tx).Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}

func (r *logRepository) DeletePerformanceBefore(tx *gorm.DB, cutoff time.Time) (int64, error) {
	res := r.conn(tx).Where("created_at < ?", cutoff).Delete(&models.PerformanceLog{})
	return res.RowsAffected, res.Error
}
