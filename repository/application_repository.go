package repository

import (
	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// ApplicationRepository provides data access operations for application records.
type ApplicationRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Application, error)
	List(tx *gorm.DB, offset, limit int) ([]models.Application, int64, error)
	ListByOwner(tx *gorm.DB, ownerID uint, offset, limit int) ([]models.Application, int64, error)
	Create(tx *gorm.DB, app *models.Application) error
	Update(tx *gorm.DB, app *models.Application) error
	DeleteByID(tx *gorm.DB, id uint) error
	CountByOwnerAndName(tx *gorm.DB, ownerID uint, name string) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository instance.
func NewApplicationRepository() ApplicationRepository {
	return &applicationRepository{
		db: config.DB,
	}
}

func (r *applicationRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *applicationRepository) GetByID(tx *gorm.DB, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.conn(tx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) List(tx *gorm.DB, offset, limit int) ([]models.Application, int64, error) {
	db := r.conn(tx)

	var total int64
	if err := db.Model(&models.Application{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepository) ListByOwner(tx *gorm.DB, ownerID uint, offset, limit int) ([]models.Application, int64, error) {
	db := r.conn(tx)

	var total int64
	if err := db.Model(&models.Application{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	if err := db.Where("owner_id = ?", ownerID).Order("id").Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepository) Create(tx *gorm.DB, app *models.Application) error {
	return r.conn(tx).Create(app).Error
}

func (r *applicationRepository) Update(tx *gorm.DB, app *models.Application) error {
	return r.conn(tx).Save(app).Error
}

func (r *applicationRepository) DeleteByID(tx *gorm.DB, id uint) error {
	return r.conn(tx).Delete(&models.Application{}, id).Error
}

func (r *applicationRepository) CountByOwnerAndName(tx *gorm.DB, ownerID uint, name string) (int64, error) {
	var count int64
	err := r.conn(tx).Model(&models.Application{}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Count(&count).Error
	return count, err
}
