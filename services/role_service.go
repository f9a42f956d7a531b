package services

import (
	"context"
	"errors"
	"fmt"

	"camsapi/models"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/validation"
	"camsapi/utils"

	"gorm.io/gorm"
)

// RoleService provides business logic for role management operations.
// System roles are protected: they cannot be renamed, deactivated or deleted.
type RoleService interface {
	Get(ctx context.Context, id uint) (*dto.RoleResponse, error)
	List(ctx context.Context, offset, limit int) ([]dto.RoleResponse, int64, error)
	Create(ctx context.Context, req dto.RoleRequest, actor Actor) (*dto.RoleResponse, error)
	Update(ctx context.Context, id uint, req dto.RoleRequest, actor Actor) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	logSrv   LogService
}

// NewRoleService creates a new role service instance.
func NewRoleService() RoleService {
	return &roleService{
		roleRepo: repository.NewRoleRepository(),
		logSrv:   NewLogService(),
	}
}

// NewRoleServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewRoleServiceWithDeps(roleRepo repository.RoleRepository, logSrv LogService) RoleService {
	return &roleService{roleRepo: roleRepo, logSrv: logSrv}
}

func (s *roleService) Get(ctx context.Context, id uint) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("role", id)
		}
		return nil, err
	}
	resp := dto.FromRole(role)
	return &resp, nil
}

func (s *roleService) List(ctx context.Context, offset, limit int) ([]dto.RoleResponse, int64, error) {
	roles, total, err := s.roleRepo.List(nil, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		resp = append(resp, dto.FromRole(&roles[i]))
	}
	return resp, total, nil
}

func (s *roleService) Create(ctx context.Context, req dto.RoleRequest, actor Actor) (*dto.RoleResponse, error) {
	if errs := validation.ValidateRoleName(req.Name); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	count, err := s.roleRepo.CountByName(nil, req.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessRuleError("role %s already exists", req.Name)
	}

	role := &models.Role{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if req.Active != nil {
		role.Active = *req.Active
	}
	if err := s.roleRepo.Create(nil, role); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "create", "role", role.ID,
		fmt.Sprintf("created role %s", role.Name), actor.IP)

	resp := dto.FromRole(role)
	return &resp, nil
}

func (s *roleService) Update(ctx context.Context, id uint, req dto.RoleRequest, actor Actor) (*dto.RoleResponse, error) {
	role, err := s.roleRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("role", id)
		}
		return nil, err
	}

	if errs := validation.ValidateRoleName(req.Name); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	if role.System && req.Name != role.Name {
		return nil, utils.NewBusinessRuleError("system role %s cannot be renamed", role.Name)
	}

	if req.Name != role.Name {
		count, err := s.roleRepo.CountByName(nil, req.Name)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, utils.NewBusinessRuleError("role %s already exists", req.Name)
		}
	}

	role.Name = req.Name
	role.Description = req.Description
	if req.Active != nil {
		if role.System && !*req.Active {
			return nil, utils.NewBusinessRuleError("system role %s cannot be deactivated", role.Name)
		}
		role.Active = *req.Active
	}
	if err := s.roleRepo.Update(nil, role); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "update", "role", role.ID,
		fmt.Sprintf("updated role %s", role.Name), actor.IP)

	resp := dto.FromRole(role)
	return &resp, nil
}

func (s *roleService) Delete(ctx context.Context, id uint, actor Actor) error {
	role, err := s.roleRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("role", id)
		}
		return err
	}

	if role.System {
		return utils.NewBusinessRuleError("system role %s cannot be deleted", role.Name)
	}

	if err := s.roleRepo.DeleteByID(nil, id); err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "delete", "role", id,
		fmt.Sprintf("deleted role %s", role.Name), actor.IP)
	return nil
}
