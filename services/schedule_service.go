package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"camsapi/models"
	"camsapi/repository"
	"camsapi/services/dto"
	"camsapi/services/validation"
	"camsapi/utils"

	"gorm.io/gorm"
)

// ScheduleService manages the per-application connection test schedule.
type ScheduleService interface {
	Get(ctx context.Context, appID uint, actor Actor, admin bool) (*dto.ScheduleResponse, error)
	// Upsert creates or replaces the schedule for an application and
	// recomputes the next run time from the cron expression.
	Upsert(ctx context.Context, appID uint, req dto.ScheduleRequest, actor Actor, admin bool) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, appID uint, actor Actor, admin bool) error
}

type scheduleService struct {
	appRepo      repository.ApplicationRepository
	scheduleRepo repository.ScheduleRepository
	logSrv       LogService
	now          func() time.Time
}

// NewScheduleService creates a new schedule service instance.
func NewScheduleService() ScheduleService {
	return &scheduleService{
		appRepo:      repository.NewApplicationRepository(),
		scheduleRepo: repository.NewScheduleRepository(),
		logSrv:       NewLogService(),
		now:          time.Now,
	}
}

// NewScheduleServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations and a fixed clock.
func NewScheduleServiceWithDeps(
	appRepo repository.ApplicationRepository,
	scheduleRepo repository.ScheduleRepository,
	logSrv LogService,
	now func() time.Time,
) ScheduleService {
	return &scheduleService{
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
		logSrv:       logSrv,
		now:          now,
	}
}

func (s *scheduleService) getApp(appID uint, actor Actor, admin bool) (*models.Application, error) {
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

func (s *scheduleService) Get(ctx context.Context, appID uint, actor Actor, admin bool) (*dto.ScheduleResponse, error) {
	if _, err := s.getApp(appID, actor, admin); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByApplicationID(nil, appID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFoundError("schedule", appID)
		}
		return nil, err
	}

	resp := dto.FromSchedule(schedule)
	return &resp, nil
}

func (s *scheduleService) Upsert(ctx context.Context, appID uint, req dto.ScheduleRequest, actor Actor, admin bool) (*dto.ScheduleResponse, error) {
	if _, err := s.getApp(appID, actor, admin); err != nil {
		return nil, err
	}

	if errs := validation.ValidateCron(req.CronExpression); len(errs) > 0 {
		return nil, utils.NewValidationError(errs)
	}

	cronSchedule, err := validation.CronSchedule(req.CronExpression)
	if err != nil {
		return nil, utils.NewValidationError([]string{err.Error()})
	}
	nextRun := cronSchedule.Next(s.now())

	schedule, err := s.scheduleRepo.GetByApplicationID(nil, appID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		schedule = &models.ConnectionTestSchedule{ApplicationID: appID}
	}

	schedule.CronExpression = req.CronExpression
	schedule.Enabled = req.Enabled
	schedule.NextRunAt = &nextRun

	if schedule.ID == 0 {
		err = s.scheduleRepo.Create(nil, schedule)
	} else {
		err = s.scheduleRepo.Update(nil, schedule)
	}
	if err != nil {
		return nil, err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "upsert", "schedule", schedule.ID,
		fmt.Sprintf("schedule %q enabled=%t for application %d", req.CronExpression, req.Enabled, appID), actor.IP)

	resp := dto.FromSchedule(schedule)
	return &resp, nil
}

func (s *scheduleService) Delete(ctx context.Context, appID uint, actor Actor, admin bool) error {
	if _, err := s.getApp(appID, actor, admin); err != nil {
		return err
	}

	if _, err := s.scheduleRepo.GetByApplicationID(nil, appID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewNotFoundError("schedule", appID)
		}
		return err
	}

	if err := s.scheduleRepo.DeleteByApplicationID(nil, appID); err != nil {
		return err
	}

	s.logSrv.RecordAudit(actor.UserID, actor.Username, "delete", "schedule", appID,
		fmt.Sprintf("deleted schedule for application %d", appID), actor.IP)
	return nil
}
