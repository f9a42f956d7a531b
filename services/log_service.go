package services

import (
	"time"

	"camsapi/models"
	"camsapi/pkg/logger"
	"camsapi/repository"
)

// LogService records and queries the append-only audit, security, system and
// performance logs. Recording never fails the calling operation: persistence
// errors are logged and swallowed.
type LogService interface {
	RecordAudit(userID uint, username, action, entityType string, entityID uint, details, ip string)
	RecordSecurity(eventType string, userID uint, username, ip, userAgent, details string)
	RecordSystem(level, source, message string)
	RecordPerformance(endpoint, method string, status int, duration time.Duration)

	ListAudit(f repository.LogFilter, offset, limit int) ([]models.AuditLog, int64, error)
	ListSecurity(f repository.LogFilter, offset, limit int) ([]models.SecurityLog, int64, error)
	ListSystem(f repository.LogFilter, offset, limit int) ([]models.SystemLog, int64, error)
	ListPerformance(f repository.LogFilter, offset, limit int) ([]models.PerformanceLog, int64, error)

	// Prune deletes entries older than cutoff from the named log table and
	// returns the number of rows removed.
	Prune(logType string, cutoff time.Time) (int64, error)
}

type logService struct {
	logRepo repository.LogRepository
}

// NewLogService creates a new log service instance.
func NewLogService() LogService {
	return &logService{
		logRepo: repository.NewLogRepository(),
	}
}

// NewLogServiceWithDeps creates a service instance with injected dependencies.
// Used for testing to provide mock implementations.
func NewLogServiceWithDeps(logRepo repository.LogRepository) LogService {
	return &logService{logRepo: logRepo}
}

func (s *logService) RecordAudit(userID uint, username, action, entityType string, entityID uint, details, ip string) {
	entry := &models.AuditLog{
		UserID:     userID,
		Username:   username,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
	}
	if err := s.logRepo.InsertAudit(nil, entry); err != nil {
		logger.Errorf("Failed to record audit log (%s %s/%d): %v", action, entityType, entityID, err)
	}
}

func (s *logService) RecordSecurity(eventType string, userID uint, username, ip, userAgent, details string) {
	entry := &models.SecurityLog{
		EventType: eventType,
		UserID:    userID,
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Details:   details,
	}
	if err := s.logRepo.InsertSecurity(nil, entry); err != nil {
		logger.Errorf("Failed to record security log (%s): %v", eventType, err)
	}
}

func (s *logService) RecordSystem(level, source, message string) {
	entry := &models.SystemLog{
		Level:   level,
		Source:  source,
		Message: message,
	}
	if err := s.logRepo.InsertSystem(nil, entry); err != nil {
		logger.Errorf("Failed to record system log (%s %s): %v", level, source, err)
	}
}

func (s *logService) RecordPerformance(endpoint, method string, status int, duration time.Duration) {
	entry := &models.PerformanceLog{
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: status,
		DurationMs: duration.Milliseconds(),
	}
	if err := s.logRepo.InsertPerformance(nil, entry); err != nil {
		logger.Errorf("Failed to record performance log (%s %s): %v", method, endpoint, err)
	}
}

func (s *logService) ListAudit(f repository.LogFilter, offset, limit int) ([]models.AuditLog, int64, error) {
	return s.logRepo.ListAudit(nil, f, offset, limit)
}

func (s *logService) ListSecurity(f repository.LogFilter, offset, limit int) ([]models.SecurityLog, int64, error) {
	return s.logRepo.ListSecurity(nil, f, offset, limit)
}

func (s *logService) ListSystem(f repository.LogFilter, offset, limit int) ([]models.SystemLog, int64, error) {
	return s.logRepo.ListSystem(nil, f, offset, limit)
}

func (s *logService) ListPerformance(f repository.LogFilter, offset, limit int) ([]models.PerformanceLog, int64, error) {
	return s.logRepo.ListPerformance(nil, f, offset, limit)
}

func (s *logService) Prune(logType string, cutoff time.Time) (int64, error) {
	switch logType {
	case "audit":
		return s.logRepo.DeleteAuditBefore(nil, cutoff)
	case "security":
		return s.logRepo.DeleteSecurityBefore(nil, cutoff)
	case "system":
		return s.logRepo.DeleteSystemBefore(nil, cutoff)
	case "performance":
		return s.logRepo.DeletePerformanceBefore(nil, cutoff)
	}
	return 0, nil
}
