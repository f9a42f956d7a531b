package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"camsapi/config"
	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/probe"
	"camsapi/services/validation"
	"camsapi/utils"

	"gorm.io/gorm"
)

// ConnectionService provides business logic for connection management and
// on-demand connectivity testing.
type ConnectionService interface {
	Get(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ConnectionResponse, error)
	ListByApplication(ctx context.Context, appID uint, actor Actor, admin bool) ([]dto.ConnectionResponse, error)
	Create(ctx context.Context, appID uint, req dto.ConnectionCreateRequest, actor Actor, admin bool) (*dto.ConnectionResponse, error)
	Update(ctx context.Context, id uint, req dto.ConnectionUpdateRequest, actor Actor, admin bool) (*dto.ConnectionResponse, error)
	Delete(ctx context.Context, id uint, actor Actor, admin bool) error
	// Test probes the connection immediately and persists the outcome.
	Test(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ConnectionResponse, error)
}

type connectionService struct {
	appRepo  repository.ApplicationRepository
	connRepo repository.ConnectionRepository
	prober   probe.Prober
	logSrv   LogService
}

// NewConnectionService creates a new connection service instance.
func NewConnectionService() ConnectionService {
	return &connectionService{
		appRepo:  repository.NewApplicationRepository(),
		connRepo: repository.NewConnectionRepository(),
		prober:   probe.New(),
		logSrv:   NewLogService(),
	}
}

// NewConnectionServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewConnectionServiceWithDeps(
	appRepo repository.ApplicationRepository,
	connRepo repository.ConnectionRepository,
	prober probe.Prober,
	logSrv LogService,
) ConnectionService {
	return &connectionService{
		appRepo:  appRepo,
		connRepo: connRepo,
		prober:   prober,
		logSrv:   logSrv,
	}
}

// getApp enforces application ownership for non-admins.
func (s *connectionService) getApp(appID uint, actor Actor, admin bool) (*models.Application, error) {
	app, err := s.appRepo.GetByID(nil, appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("application", appID)
		}
		return nil, err
	}
	if !admin && app.OwnerID != actor.UserID {
		return nil, utils.NewNotFoundError("application", appID)
	}
	return app, nil
}

// getOwned loads a connection and enforces ownership through its application.
func (s *connectionService) getOwned(id uint, actor Actor, admin bool) (*models.DatabaseConnection, error) {
	conn, err := s.connRepo.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("connection", id)
		}
		return nil, err
	}
	if _, err := s.getApp(conn.ApplicationID, actor, admin); err != nil {
		return nil, utils.NewNotFoundError("connection", id)
	}
	return conn, nil
}

func (s *connectionService) Get(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ConnectionResponse, error) {
	conn, err := s.getOwned(id, actor, admin)
	if err != nil {
		return nil, err
	}
	resp := dto.FromConnection(conn)
	return &resp, nil
}

func (s *connectionService) ListByApplication(ctx context.Context, appID uint, actor Actor, admin bool) ([]dto.ConnectionResponse, error) {
	if _, err := s.getApp(appID, actor, admin); err != nil {
		return nil, err
	}

	conns, err := s.connRepo.ListByApplication(nil, appID)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ConnectionResponse, 0, len(conns))
	for i := range conns {
		resp = append(resp, dto.FromConnection(&conns[i]))
	}
	return resp, nil
}

func (s *connectionService) Create(ctx context.Context, appID uint, req dto.ConnectionCreateRequest, actor Actor, admin bool) (*dto.ConnectionResponse, error) {
	if _, err := s.getApp(appID, actor, admin); err != nil {
		return nil, err
	}

	conn := dto.ToConnection(appID, req)
	if errs := validation.ValidateConnection(&conn); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	count, err := s.connRepo.CountByApplicationAndName(nil, appID, req.Name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.NewBusinessRuleError("connection %s already exists for this application", req.Name)
	}

	if err := s.connRepo.Create(nil, &conn); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "create", "connection", conn.ID,
		fmt.Sprintf("created %s connection %s", conn.Type, conn.Name), actor.IP)
	logger.Infof("Connection %s (type=%s) created for application %d", conn.Name, conn.Type, appID)

	resp := dto.FromConnection(&conn)
	return &resp, nil
}

func (s *connectionService) Update(ctx context.Context, id uint, req dto.ConnectionUpdateRequest, actor Actor, admin bool) (*dto.ConnectionResponse, error) {
	conn, err := s.getOwned(id, actor, admin)
	if err != nil {
		return nil, err
	}

	dto.ApplyConnectionUpdate(conn, req)
	if errs := validation.ValidateConnection(conn); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	if err := s.connRepo.Update(nil, conn); err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "update", "connection", conn.ID,
		fmt.Sprintf("updated connection %s", conn.Name), actor.IP)

	resp := dto.FromConnection(conn)
	return &resp, nil
}

func (s *connectionService) Delete(ctx context.Context, id uint, actor Actor, admin bool) error {
	conn, err := s.getOwned(id, actor, admin)
	if err != nil {
		return err
	}

	if err := s.connRepo.DeleteByID(nil, id); err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "delete", "connection", id,
		fmt.Sprintf("deleted connection %s", conn.Name), actor.IP)
	return nil
}

func (s *connectionService) Test(ctx context.Context, id uint, actor Actor, admin bool) (*dto.ConnectionResponse, error) {
	conn, err := s.getOwned(id, actor, admin)
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, config.Cfg.ProbeTimeout)
	defer cancel()

	result := s.prober.Probe(probeCtx, conn)
	testedAt := time.Now()

	if result.Success {
		logger.Infof("Connection test passed for %s (id=%d) in %v", conn.Name, id, result.Duration)
	} else {
		// Failure message is recorded verbatim for operator inspection.
		logger.Warnf("Connection test failed for %s (id=%d): %s", conn.Name, id, result.Message)
	}

	if err := s.connRepo.UpdateTestResult(nil, id, result.Success, result.Message,
		result.Duration.Milliseconds(), testedAt); err != nil {
		return nil, err
	}

	conn.LastTestedAt = &testedAt
	conn.LastTestSuccess = result.Success
	conn.LastTestMessage = result.Message
	conn.LastTestMillis = result.Duration.Milliseconds()
	if result.Success {
		conn.Status = models.ConnectionStatusHealthy
	} else {
		conn.Status = models.ConnectionStatusFailed
	}

	resp := dto.FromConnection(conn)
	return &resp, nil
}
