package repository

import (
	"time"

	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// ConnectionRepository provides data access operations for database connection records.
type ConnectionRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.DatabaseConnection, error)
	ListByApplication(tx *gorm.DB, appID uint) ([]models.DatabaseConnection, error)
	List(tx *gorm.DB, offset, limit int) ([]models.DatabaseConnection, int64, error)
	Create(tx *gorm.DB, conn *models.DatabaseConnection) error
	Update(tx *gorm.DB, conn *models.DatabaseConnection) error
	DeleteByID(tx *gorm.DB, id uint) error
	DeleteByApplication(tx *gorm.DB, appID uint) error
	CountByApplicationAndName(tx *gorm.DB, appID uint, name string) (int64, error)
	UpdateTestResult(tx *gorm.DB, id uint, success bool, message string, millis int64, testedAt time.Time) error
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository creates a new connection repository instance.
func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{
		db: config.DB,
	}
}

func (r *connectionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *connectionRepository) GetByID(tx *gorm.DB, id uint) (*models.DatabaseConnection, error) {
	var c models.DatabaseConnection
	if err := r.conn(tx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *connectionRepository) ListByApplication(tx *gorm.DB, appID uint) ([]models.DatabaseConnection, error) {
	var conns []models.DatabaseConnection
	if err := r.conn(tx).Where("application_id = ?", appID).Order("id").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *connectionRepository) List(tx *gorm.DB, offset, limit int) ([]models.DatabaseConnection, int64, error) {
	db := r.conn(tx)

	var total int64
	if err := db.Model(&models.DatabaseConnection{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conns []models.DatabaseConnection
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&conns).Error; err != nil {
		return nil, 0, err
	}
	return conns, total, nil
}

func (r *connectionRepository) Create(tx *gorm.DB, conn *models.DatabaseConnection) error {
	return r.conn(tx).Create(conn).Error
}

func (r *connectionRepository) Update(tx *gorm.DB, conn *models.DatabaseConnection) error {
	return r.conn(tx).Save(conn).Error
}

func (r *connectionRepository) DeleteByID(tx *gorm.DB, id uint) error {
	return r.conn(tx).Delete(&models.DatabaseConnection{}, id).Error
}

func (r *connectionRepository) DeleteByApplication(tx *gorm.DB, appID uint) error {
	return r.conn(tx).Where("application_id = ?", appID).Delete(&models.DatabaseConnection{}).Error
}

func (r *connectionRepository) CountByApplicationAndName(tx *gorm.DB, appID uint, name string) (int64, error) {
	var count int64
	err := r.conn(tx).Model(&models.DatabaseConnection{}).
		Where("application_id = ? AND name = ?", appID, name).
		Count(&count).Error
	return count, err
}

func (r *connectionRepository) UpdateTestResult(tx *gorm.DB, id uint, success bool, message string, millis int64, testedAt time.Time) error {
	status := models.ConnectionStatusFailed
	if success {
		status = models.ConnectionStatusHealthy
	}
	return r.conn(tx).Model(&models.DatabaseConnection{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            status,
			"last_tested_at":    testedAt,
			"last_test_success": success,
			"last_test_message": message,
			"last_test_millis":  millis,
		}).Error
}
