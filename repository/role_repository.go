package repository

import (
	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// RoleRepository provides data access operations for role records.
type RoleRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.Role, error)
	GetByName(tx *gorm.DB, name string) (*models.Role, error)
	List(tx *gorm.DB, offset, limit int) ([]models.Role, int64, error)
	Create(tx *gorm.DB, role *models.Role) error
	Update(tx *gorm.DB, role *models.Role) error
	DeleteByID(tx *gorm.DB, id uint) error
	CountByName(tx *gorm.DB, name string) (int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository instance.
func NewRoleRepository() RoleRepository {
	return &roleRepository{
		db: config.DB,
	}
}

func (r *roleRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *roleRepository) GetByID(tx *gorm.DB, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.conn(tx).Where("id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(tx *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := r.conn(tx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(tx *gorm.DB, offset, limit int) ([]models.Role, int64, error) {
	db := r.conn(tx)

	var total int64
	if err := db.Model(&models.Role{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []models.Role
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *roleRepository) Create(tx *gorm.DB, role *models.Role) error {
	return r.conn(tx).Create(role).Error
}

func (r *roleRepository) Update(tx *gorm.DB, role *models.Role) error {
	return r.conn(tx).Save(role).Error
}

func (r *roleRepository) DeleteByID(tx *gorm.DB, id uint) error {
	return r.conn(tx).Delete(&models.Role{}, id).Error
}

func (r *roleRepository) CountByName(tx *gorm.DB, name string) (int64, error) {
	var count int64
	err := r.conn(tx).Model(&models.Role{}).Where("name = ?", name).Count(&count).Error
	return count, err
}
