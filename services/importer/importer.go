// Package importer runs bulk imports of users, roles and applications from
// JSON or CSV payloads. Each import becomes a background job identified by a
// UUID; progress is broadcast to the "import:<job id>" group and row-level
// failures are collected without aborting the run.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"camsapi/config"
	"camsapi/pkg/hub"
	"camsapi/pkg/logger"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

const (
	EntityUsers        = "users"
	EntityRoles        = "roles"
	EntityApplications = "applications"

	FormatJSON = "json"
	FormatCSV  = "csv"

	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RowError records a single rejected row. Row numbers are 1-based over the
// data rows (the CSV header does not count).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Job is the outward state of one import run.
type Job struct {
	ID         string     `json:"id"`
	Entity     string     `json:"entity"`
	Format     string     `json:"format"`
	Status     string     `json:"status"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Service accepts import payloads and tracks their jobs.
type Service interface {
	// Start parses the payload, registers a job and processes the rows on a
	// background goroutine. It returns immediately with the pending job.
	Start(entity, format string, data []byte, actor services.Actor) (*Job, error)
	Get(id string) (*Job, error)
	List(offset, limit int) ([]Job, int)
}

type service struct {
	userSrv services.UserService
	roleSrv services.RoleService
	appSrv  services.ApplicationService
	hub     *hub.Hub

	mu   sync.RWMutex
	jobs map[string]*Job
}

var (
	instance Service
	once     sync.Once
)

// Get returns the singleton import service.
func Get() Service {
	once.Do(func() {
		instance = New(
			services.NewUserService(),
			services.NewRoleService(),
			services.NewApplicationService(),
			hub.Get(),
		)
	})
	return instance
}

// New creates an import service with explicit dependencies. Used directly
// by tests.
func New(userSrv services.UserService, roleSrv services.RoleService, appSrv services.ApplicationService, h *hub.Hub) Service {
	return &service{
		userSrv: userSrv,
		roleSrv: roleSrv,
		appSrv:  appSrv,
		hub:     h,
		jobs:    make(map[string]*Job),
	}
}

func (s *service) Start(entity, format string, data []byte, actor services.Actor) (*Job, error) {
	switch entity {
	case EntityUsers, EntityRoles, EntityApplications:
	default:
		return nil, utils.NewValidationError([]string{fmt.Sprintf("unknown import entity %q", entity)})
	}

	rows, err := parseRows(entity, format, data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.NewValidationError([]string{"import payload contains no rows"})
	}
	if max := config.Cfg.ImportMaxRows; max > 0 && len(rows) > max {
		return nil, utils.NewValidationError([]string{fmt.Sprintf("import payload has %d rows, limit is %d", len(rows), max)})
	}

	job := &Job{
		ID:        uuid.NewString(),
		Entity:    entity,
		Format:    format,
		Status:    StatusPending,
		Total:     len(rows),
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	go s.run(job.ID, rows, actor)

	return s.snapshot(job), nil
}

func (s *service) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, utils.NewNotFoundError("import job", 0)
	}
	return copyJob(job), nil
}

// List returns jobs newest first.
func (s *service) List(offset, limit int) ([]Job, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		all = append(all, j)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].StartedAt.After(all[k].StartedAt) })

	total := len(all)
	if offset >= total {
		return []Job{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]Job, 0, end-offset)
	for _, j := range all[offset:end] {
		out = append(out, *copyJob(j))
	}
	return out, total
}

type row interface{}

func (s *service) run(jobID string, rows []row, actor services.Actor) {
	s.update(jobID, func(j *Job) { j.Status = StatusRunning })

	ctx := context.Background()
	for i, r := range rows {
		var err error
		switch v := r.(type) {
		case dto.UserCreateRequest:
			// Rows never pass through request binding, so tag checks run here.
			if err = utils.ValidateStruct(&v); err == nil {
				_, err = s.userSrv.Create(ctx, v, actor)
			}
		case dto.RoleRequest:
			if err = utils.ValidateStruct(&v); err == nil {
				_, err = s.roleSrv.Create(ctx, v, actor)
			}
		case dto.ApplicationCreateRequest:
			if err = utils.ValidateStruct(&v); err == nil {
				_, err = s.appSrv.Create(ctx, v, actor)
			}
		}

		s.update(jobID, func(j *Job) {
			j.Processed++
			if err != nil {
				j.Failed++
				j.Errors = append(j.Errors, RowError{Row: i + 1, Message: err.Error()})
			} else {
				j.Succeeded++
			}
		})
	}

	s.update(jobID, func(j *Job) {
		now := time.Now()
		j.FinishedAt = &now
		if j.Succeeded == 0 {
			j.Status = StatusFailed
		} else {
			j.Status = StatusCompleted
		}
		logger.Infof("Import %s (%s) finished: %d succeeded, %d failed of %d",
			j.ID, j.Entity, j.Succeeded, j.Failed, j.Total)
	})
}

// update mutates a job under the lock and broadcasts the new state.
func (s *service) update(jobID string, fn func(*Job)) {
	s.mu.Lock()
	job, ok := s.jobs[jobID]
	if !ok {
		s.mu.Unlock()
		return
	}
	fn(job)
	snap := copyJob(job)
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast("import:"+jobID, snap)
	}
}

func (s *service) snapshot(job *Job) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyJob(job)
}

func copyJob(j *Job) *Job {
	out := *j
	if j.Errors != nil {
		out.Errors = append([]RowError(nil), j.Errors...)
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}

func parseRows(entity, format string, data []byte) ([]row, error) {
	switch format {
	case FormatJSON:
		return parseJSON(entity, data)
	case FormatCSV:
		return parseCSV(entity, data)
	}
	return nil, utils.NewValidationError([]string{fmt.Sprintf("unknown import format %q", format)})
}

func parseJSON(entity string, data []byte) ([]row, error) {
	var err error
	var rows []row
	switch entity {
	case EntityUsers:
		var reqs []dto.UserCreateRequest
		if err = json.Unmarshal(data, &reqs); err == nil {
			for _, r := range reqs {
				rows = append(rows, r)
			}
		}
	case EntityRoles:
		var reqs []dto.RoleRequest
		if err = json.Unmarshal(data, &reqs); err == nil {
			for _, r := range reqs {
				rows = append(rows, r)
			}
		}
	case EntityApplications:
		var reqs []dto.ApplicationCreateRequest
		if err = json.Unmarshal(data, &reqs); err == nil {
			for _, r := range reqs {
				rows = append(rows, r)
			}
		}
	}
	if err != nil {
		return nil, utils.NewValidationError([]string{fmt.Sprintf("invalid JSON payload: %v", err)})
	}
	return rows, nil
}

// parseCSV expects a header row naming the JSON field names of the entity.
func parseCSV(entity string, data []byte) ([]row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, utils.NewValidationError([]string{fmt.Sprintf("invalid CSV payload: %v", err)})
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, utils.NewValidationError([]string{fmt.Sprintf("invalid CSV payload: %v", err)})
		}

		fields := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				fields[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, rowFromFields(entity, fields))
	}
	return rows, nil
}

func rowFromFields(entity string, f map[string]string) row {
	switch entity {
	case EntityUsers:
		return dto.UserCreateRequest{
			Username:  f["username"],
			Email:     f["email"],
			Password:  f["password"],
			FirstName: f["first_name"],
			LastName:  f["last_name"],
			Active:    parseOptionalBool(f["active"]),
		}
	case EntityRoles:
		return dto.RoleRequest{
			Name:        f["name"],
			Description: f["description"],
			Active:      parseOptionalBool(f["active"]),
		}
	default:
		return dto.ApplicationCreateRequest{
			Name:        f["name"],
			Description: f["description"],
			Version:     f["version"],
			Environment: f["environment"],
		}
	}
}

func parseOptionalBool(v string) *bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		b := true
		return &b
	case "false", "0", "no":
		b := false
		return &b
	}
	return nil
}
