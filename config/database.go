package config

import (
	"fmt"

	"camsapi/pkg/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the global GORM database instance used throughout the application.
var DB *gorm.DB

// ConnectDB opens the CAMS metadata database and tunes the connection pool.
// Scheduler ticks and request handlers share this pool, so limits come from
// configuration rather than the driver defaults.
func ConnectDB() error {
	logger.Infof("Opening CAMS database %s@%s:%d/%s", Cfg.DBUser, Cfg.DBHost, Cfg.DBPort, Cfg.DBName)

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		Cfg.DBUser,
		Cfg.DBPass,
		Cfg.DBHost,
		Cfg.DBPort,
		Cfg.DBName,
	)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Errorf("Database connection failed: %v", err)
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(Cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(Cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(Cfg.DBConnMaxLifetime)

	logger.Infof("CAMS database ready (pool: %d open / %d idle, lifetime %v)",
		Cfg.DBMaxOpenConns, Cfg.DBMaxIdleConns, Cfg.DBConnMaxLifetime)

	DB = db
	return nil
}
