package bootstrap

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"camsapi/config"
	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/repository"
)

// Run migrates the schema and seeds the system roles and the default admin
// account. Safe to call on every start.
func Run() error {
	logger.Infof("Starting bootstrap...")

	if err := migrate(); err != nil {
		return err
	}
	if err := seedRoles(); err != nil {
		return err
	}
	if err := seedAdmin(); err != nil {
		return err
	}

	logger.Infof("Bootstrap completed successfully")
	return nil
}

func migrate() error {
	err := config.DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.UserRole{},
		&models.Application{},
		&models.DatabaseConnection{},
		&models.ConnectionTestSchedule{},
		&models.AuditLog{},
		&models.SecurityLog{},
		&models.SystemLog{},
		&models.PerformanceLog{},
	)
	if err != nil {
		logger.Errorf("Schema migration failed: %v", err)
		return fmt.Errorf("schema migration failed: %v", err)
	}
	logger.Infof("Schema migration completed")
	return nil
}

func seedRoles() error {
	roleRepo := repository.NewRoleRepository()

	seeds := []models.Role{
		{Name: models.RoleAdmin, Description: "Full access to all resources", System: true, Active: true},
		{Name: models.RoleManager, Description: "Manage applications, connections and schedules", System: true, Active: true},
		{Name: models.RoleViewer, Description: "Read-only access", System: true, Active: true},
	}

	for i := range seeds {
		existing, err := roleRepo.GetByName(nil, seeds[i].Name)
		if err == nil && existing != nil {
			continue
		}
		if err := roleRepo.Create(nil, &seeds[i]); err != nil {
			logger.Errorf("Failed to seed role %s: %v", seeds[i].Name, err)
			return fmt.Errorf("failed to seed role %s: %v", seeds[i].Name, err)
		}
		logger.Infof("Seeded system role %s", seeds[i].Name)
	}
	return nil
}

// seedAdmin creates the default admin account on first start. Skipped when
// the configured username already exists or no password is configured.
func seedAdmin() error {
	if config.Cfg.DefaultAdminUser == "" || config.Cfg.DefaultAdminPass == "" {
		logger.Warnf("No default admin configured, skipping admin seed")
		return nil
	}

	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	userRoleRepo := repository.NewUserRoleRepository()

	if existing, err := userRepo.GetByUsername(nil, config.Cfg.DefaultAdminUser); err == nil && existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.Cfg.DefaultAdminPass), config.Cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %v", err)
	}

	admin := models.User{
		Username:     config.Cfg.DefaultAdminUser,
		Email:        config.Cfg.DefaultAdminEmail,
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Administrator",
		Active:       true,
	}
	if err := userRepo.Create(nil, &admin); err != nil {
		logger.Errorf("Failed to seed default admin: %v", err)
		return fmt.Errorf("failed to seed default admin: %v", err)
	}

	adminRole, err := roleRepo.GetByName(nil, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to load admin role: %v", err)
	}
	assignment := models.UserRole{
		UserID:     admin.ID,
		RoleID:     adminRole.ID,
		AssignedBy: admin.ID,
		Active:     true,
	}
	if err := userRoleRepo.Create(nil, &assignment); err != nil {
		return fmt.Errorf("failed to assign admin role: %v", err)
	}

	logger.Infof("Seeded default admin user %s", admin.Username)
	return nil
}
