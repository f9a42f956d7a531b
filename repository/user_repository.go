package repository

import (
	"time"

	"camsapi/config"
	"camsapi/models"

	"gorm.io/gorm"
)

// UserRepository provides data access operations for user records.
type UserRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(tx *gorm.DB, username string) (*models.User, error)
	GetByEmail(tx *gorm.DB, email string) (*models.User, error)
	GetByRefreshToken(tx *gorm.DB, token string) (*models.User, error)
	List(tx *gorm.DB, offset, limit int) ([]models.User, int64, error)
	Create(tx *gorm.DB, user *models.User) error
	Update(tx *gorm.DB, user *models.User) error
	DeleteByID(tx *gorm.DB, id uint) error
	CountByUsernameOrEmail(tx *gorm.DB, username, email string) (int64, error)
	UpdateRefreshToken(tx *gorm.DB, id uint, token string, expiry *time.Time) error
	UpdateLastLogin(tx *gorm.DB, id uint, at time.Time) error
	UpdatePasswordHash(tx *gorm.DB, id uint, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository() UserRepository {
	return &userRepository{
		db: config.DB,
	}
}

func (r *userRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepository) GetByID(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(tx *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByRefreshToken(tx *gorm.DB, token string) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Where("refresh_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(tx *gorm.DB, offset, limit int) ([]models.User, int64, error) {
	db := r.conn(tx)

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Create(tx *gorm.DB, user *models.User) error {
	return r.conn(tx).Create(user).Error
}

func (r *userRepository) Update(tx *gorm.DB, user *models.User) error {
	return r.conn(tx).Save(user).Error
}

func (r *userRepository) DeleteByID(tx *gorm.DB, id uint) error {
	return r.conn(tx).Delete(&models.User{}, id).Error
}

func (r *userRepository) CountByUsernameOrEmail(tx *gorm.DB, username, email string) (int64, error) {
	var count int64
	err := r.conn(tx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count, err
}

func (r *userRepository) UpdateRefreshToken(tx *gorm.DB, id uint, token string, expiry *time.Time) error {
	return r.conn(tx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"refresh_token":        token,
			"refresh_token_expiry": expiry,
		}).Error
}

func (r *userRepository) UpdateLastLogin(tx *gorm.DB, id uint, at time.Time) error {
	return r.conn(tx).Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", at).Error
}

func (r *userRepository) UpdatePasswordHash(tx *gorm.DB, id uint, hash string) error {
	return r.conn(tx).Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", hash).Error
}
