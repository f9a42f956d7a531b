package services

import (
	"context"
	"errors"
	"fmt"

	"camsapi/config"
	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/validation"
	"camsapi/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService provides business logic for user management operations.
type UserService interface {
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, req dto.UserCreateRequest, actor Actor) (*dto.UserResponse, error)
	Update(ctx context.Context, id uint, req dto.UserUpdateRequest, actor Actor) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest, actor Actor) error
	AssignRole(ctx context.Context, userID, roleID uint, actor Actor) error
	RevokeRole(ctx context.Context, userID, roleID uint, actor Actor) error
}

// Actor identifies the caller performing a mutation, for audit entries.
type Actor struct {
	UserID   uint
	Username string
	IP       string
}

type userService struct {
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	userRoleRepo repository.UserRoleRepository
	logSrv       LogService
}

// NewUserService creates a new user service instance.
func NewUserService() UserService {
	return &userService{
		userRepo:     repository.NewUserRepository(),
		roleRepo:     repository.NewRoleRepository(),
		userRoleRepo: repository.NewUserRoleRepository(),
		logSrv:       NewLogService(),
	}
}

// NewUserServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewUserServiceWithDeps(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	userRoleRepo repository.UserRoleRepository,
	logSrv LogService,
) UserService {
	return &userService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		userRoleRepo: userRoleRepo,
		logSrv:       logSrv,
	}
}

func (s *userService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("user", id)
		}
		return nil, err
	}

	resp := dto.FromUser(user)
	if roles, err := s.userRoleRepo.GetActiveRoleNames(nil, id); err == nil {
		resp.Roles = roles
	}
	return &resp, nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(nil, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, dto.FromUser(&users[i]))
	}
	return resp, total, nil
}

func (s *userService) Create(ctx context.Context, req dto.UserCreateRequest, actor Actor) (*dto.UserResponse, error) {
	var errs []string
	errs = append(errs, validation.ValidateUsername(req.Username)...)
	errs = append(errs, validation.ValidatePassword(req.Password, config.Cfg.PasswordMinLength)...)
	if len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	count, err := s.userRepo.CountByUsernameOrEmail(nil, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessRuleError("username or email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.Cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Active:       true,
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.userRepo.Create(nil, user); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "create", "user", user.ID,
		fmt.Sprintf("created user %s", user.Username), actor.IP)
	logger.Infof("User %s created by %s", user.Username, actor.Username)

	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uint, req dto.UserUpdateRequest, actor Actor) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("user", id)
		}
		return nil, err
	}

	dto.ApplyUserUpdate(user, req)
	if err := s.userRepo.Update(nil, user); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "update", "user", user.ID,
		fmt.Sprintf("updated user %s", user.Username), actor.IP)

	resp := dto.FromUser(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, id uint, actor Actor) error {
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("user", id)
		}
		return err
	}

	if id == actor.UserID {
		return utils.NewBusinessRuleError("cannot delete your own account")
	}

	if err := s.userRoleRepo.DeleteByUser(nil, id); err != nil {
		return err
	}
	if err := s.userRepo.DeleteByID(nil, id); err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "delete", "user", id,
		fmt.Sprintf("deleted user %s", user.Username), actor.IP)
	logger.Infof("User %s deleted by %s", user.Username, actor.Username)
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest, actor Actor) error {
	user, err := s.userRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("user", id)
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return utils.NewBusinessRuleError("current password is incorrect")
	}

	if errs := validation.ValidatePassword(req.NewPassword, config.Cfg.PasswordMinLength); len(errs) > 0 {
		return utils.NewValidationError(errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), config.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(nil, id, string(hash)); err != nil {
		return err
	}

	s.logSrv.RecordSecurity(models.SecurityEventPasswordReset, user.ID, user.Username, actor.IP, "", "")
	return nil
}

func (s *userService) AssignRole(ctx context.Context, userID, roleID uint, actor Actor) error {
	if _, err := s.userRepo.GetByID(nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("user", userID)
		}
		return err
	}
	role, err := s.roleRepo.GetByID(nil, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("role", roleID)
		}
		return err
	}

	// Reactivate an existing assignment rather than inserting a duplicate row.
	if existing, err := s.userRoleRepo.GetByUserAndRole(nil, userID, roleID); err == nil {
		if existing.Active {
			return utils.NewBusinessRuleError("user already holds role %s", role.Name)
		}
		existing.Active = true
		existing.AssignedBy = actor.UserID
		if err := s.userRoleRepo.Update(nil, existing); err != nil {
			return err
		}
	} else {
		assignment := &models.UserRole{
			UserID:     userID,
			RoleID:     roleID,
			AssignedBy: actor.UserID,
			Active:     true,
		}
		if err := s.userRoleRepo.Create(nil, assignment); err != nil {
			return err
		}
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "assign_role", "user", userID,
		fmt.Sprintf("assigned role %s", role.Name), actor.IP)
	return nil
}

func (s *userService) RevokeRole(ctx context.Context, userID, roleID uint, actor Actor) error {
	role, err := s.roleRepo.GetByID(nil, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("role", roleID)
		}
		return err
	}

	if _, err := s.userRoleRepo.GetByUserAndRole(nil, userID, roleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewBusinessRuleError("user does not hold role %s", role.Name)
		}
		return err
	}

	if err := s.userRoleRepo.DeleteByUserAndRole(nil, userID, roleID); err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "revoke_role", "user", userID,
		fmt.Sprintf("revoked role %s", role.Name), actor.IP)
	return nil
}
