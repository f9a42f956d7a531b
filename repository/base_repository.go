package repository

import (
	"camsapi/config"

	"gorm.io/gorm"
)

// BaseRepository provides transaction management for multi-table operations.
type BaseRepository interface {
	// InTransaction runs fn inside a transaction, committing on nil and
	// rolling back on error or panic.
	InTransaction(fn func(tx *gorm.DB) error) error
}

type baseRepository struct {
	db *gorm.DB
}

// NewBaseRepository creates a new base repository instance with database connection.
func NewBaseRepository() BaseRepository {
	return &baseRepository{
		db: config.DB,
	}
}

func (r *baseRepository) InTransaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
