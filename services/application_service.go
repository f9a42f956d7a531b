package services

import (
	"context"
	"errors"
	"fmt"

	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/validation"
	"camsapi/utils"

	"gorm.io/gorm"
)

// ApplicationService provides business logic for application management.
// Non-admin callers only see and mutate applications they own.
type ApplicationService interface {
	Get(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ApplicationResponse, error)
	List(ctx context.Context, actor Actor, admin bool, offset, limit int) ([]dto.ApplicationResponse, int64, error)
	Create(ctx context.Context, req dto.ApplicationCreateRequest, actor Actor) (*dto.ApplicationResponse, error)
	Update(ctx context.Context, id uint, req dto.ApplicationUpdateRequest, actor Actor, admin bool) (*dto.ApplicationResponse, error)
	// Delete removes the application together with its connections and
	// schedule in one transaction.
	Delete(ctx context.Context, id uint, actor Actor, admin bool) error
}

type applicationService struct {
	baseRepo     repository.BaseRepository
	appRepo      repository.ApplicationRepository
	connRepo     repository.ConnectionRepository
	scheduleRepo repository.ScheduleRepository
	logSrv       LogService
}

// NewApplicationService creates a new application service instance.
func NewApplicationService() ApplicationService {
	return &applicationService{
		baseRepo:     repository.NewBaseRepository(),
		appRepo:      repository.NewApplicationRepository(),
		connRepo:     repository.NewConnectionRepository(),
		scheduleRepo: repository.NewScheduleRepository(),
		logSrv:       NewLogService(),
	}
}

// NewApplicationServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewApplicationServiceWithDeps(
	baseRepo repository.BaseRepository,
	appRepo repository.ApplicationRepository,
	connRepo repository.ConnectionRepository,
	scheduleRepo repository.ScheduleRepository,
	logSrv LogService,
) ApplicationService {
	return &applicationService{
		baseRepo:     baseRepo,
		appRepo:      appRepo,
		connRepo:     connRepo,
		scheduleRepo: scheduleRepo,
		logSrv:       logSrv,
	}
}

// getOwned loads the application and enforces ownership for non-admins.
func (s *applicationService) getOwned(id uint, actor Actor, admin bool) (*models.Application, error) {
	app, err := s.appRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("application", id)
		}
		return nil, err
	}
	// Hide other tenants' applications rather than revealing their existence.
	if !admin && app.OwnerID != actor.UserID {
		return nil, utils.NewNotFoundError("application", id)
	}
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ApplicationResponse, error) {
	app, err := s.getOwned(id, actor, admin)
	if err != nil {
		return nil, err
	}

	conns, err := s.connRepo.ListByApplication(nil, id)
	if err == nil {
		app.Connections = conns
	}

	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *applicationService) List(ctx context.Context, actor Actor, admin bool, offset, limit int) ([]dto.ApplicationResponse, int64, error) {
	var (
		apps  []models.Application
		total int64
		err   error
	)
	if admin {
		apps, total, err = s.appRepo.List(nil, offset, limit)
	} else {
		apps, total, err = s.appRepo.ListByOwner(nil, actor.UserID, offset, limit)
	}
	if err != nil {
		return nil, 0, err
	}

	resp := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, dto.FromApplication(&apps[i]))
	}
	return resp, total, nil
}

func (s *applicationService) Create(ctx context.Context, req dto.ApplicationCreateRequest, actor Actor) (*dto.ApplicationResponse, error) {
	if errs := validation.ValidateApplication(req.Name, req.Description, req.Version); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	count, err := s.appRepo.CountByOwnerAndName(nil, actor.UserID, req.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessRuleError("application %s already exists", req.Name)
	}

	app := &models.Application{
		OwnerID:     actor.UserID,
		Name:        req.Name,
		Description: req.Description,
		Version:     req.Version,
		Environment: req.Environment,
		Active:      true,
	}
	if err := s.appRepo.Create(nil, app); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "create", "application", app.ID,
		fmt.Sprintf("created application %s", app.Name), actor.IP)
	logger.Infof("Application %s (id=%d) created by %s", app.Name, app.ID, actor.Username)

	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *applicationService) Update(ctx context.Context, id uint, req dto.ApplicationUpdateRequest, actor Actor, admin bool) (*dto.ApplicationResponse, error) {
	app, err := s.getOwned(id, actor, admin)
	if err != nil {
		return nil, err
	}

	if errs := validation.ValidateApplication(req.Name, req.Description, req.Version); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	dto.ApplyApplicationUpdate(app, req)
	if err := s.appRepo.Update(nil, app); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "update", "application", app.ID,
		fmt.Sprintf("updated application %s", app.Name), actor.IP)

	resp := dto.FromApplication(app)
	return &resp, nil
}

func (s *applicationService) Delete(ctx context.Context, id uint, actor Actor, admin bool) error {
	app, err := s.getOwned(id, actor, admin)
	if err != nil {
		return err
	}

	err = s.baseRepo.InTransaction(func(tx *gorm.DB) error {
		if err := s.connRepo.DeleteByApplication(tx, id); err != nil {
			return err
		}
		if err := s.scheduleRepo.DeleteByApplicationID(tx, id); err != nil {
			return err
		}
		return s.appRepo.DeleteByID(tx, id)
	})
	if err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "delete", "application", id,
		fmt.Sprintf("deleted application %s", app.Name), actor.IP)
	logger.Infof("Application %s (id=%d) deleted by %s", app.Name, id, actor.Username)
	return nil
}
