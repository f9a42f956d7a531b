package repository

import (
	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// UserRoleRepository provides data access operations for role assignments.
type UserRoleRepository interface {
	// GetActiveRoleNames returns the names of roles effectively held by the
	// user: the assignment row and the role row must both be active.
	GetActiveRoleNames(tx *gorm.DB, userID uint) ([]string, error)
	GetByUserAndRole(tx *gorm.DB, userID, roleID uint) (*models.UserRole, error)
	ListByUser(tx *gorm.DB, userID uint) ([]models.UserRole, error)
	Create(tx *gorm.DB, ur *models.UserRole) error
	Update(tx *gorm.DB, ur *models.UserRole) error
	DeleteByUserAndRole(tx *gorm.DB, userID, roleID uint) error
	DeleteByUser(tx *gorm.DB, userID uint) error
}

type userRoleRepository struct {
	db *gorm.DB
}

// NewUserRoleRepository creates a new user role repository instance.
func NewUserRoleRepository() UserRoleRepository {
	return &userRoleRepository{
		db: config.DB,
	}
}

func (r *userRoleRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRoleRepository) GetActiveRoleNames(tx *gorm.DB, userID uint) ([]string, error) {
	var names []string
	err := r.conn(tx).Table(models.UserRole{}.TableName()+" AS ur").
		Joins("JOIN roles AS r ON r.id = ur.role_id").
		Where("ur.user_id = ? AND ur.active = ? AND r.active = ?", userID, true, true).
		Pluck("r.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *userRoleRepository) GetByUserAndRole(tx *gorm.DB, userID, roleID uint) (*models.UserRole, error) {
	var ur models.UserRole
	if err := r.conn(tx).Where("user_id = ? AND role_id = ?", userID, roleID).First(&ur).Error; err != nil {
		return nil, err
	}
	return &ur, nil
}

func (r *userRoleRepository) ListByUser(tx *gorm.DB, userID uint) ([]models.UserRole, error) {
	var urs []models.UserRole
	if err := r.conn(tx).Preload("Role").Where("user_id = ?", userID).Find(&urs).Error; err != nil {
		return nil, err
	}
	return urs, nil
}

func (r *userRoleRepository) Create(tx *gorm.DB, ur *models.UserRole) error {
	return r.conn(tx).Create(ur).Error
}

func (r *userRoleRepository) Update(tx *gorm.DB, ur *models.UserRole) error {
	return r.conn(tx).Save(ur).Error
}

func (r *userRoleRepository) DeleteByUserAndRole(tx *gorm.DB, userID, roleID uint) error {
	return r.conn(tx).Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
}

func (r *userRoleRepository) DeleteByUser(tx *gorm.DB, userID uint) error {
	return r.conn(tx).Where("user_id = ?", userID).Delete(&models.UserRole{}).Error
}
