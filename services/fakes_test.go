package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"camsapi/models"
	"camsapi/repository"
	"camsapi/services/probe"
)

// In-memory repository fakes shared by the service tests in this package.

type auditEntry struct {
	Action     string
	EntityType string
	EntityID   uint
}

type fakeLogService struct {
	mu       sync.Mutex
	audits   []auditEntry
	security []string
}

func (f *fakeLogService) RecordAudit(userID uint, username, action, entityType string, entityID uint, details, ip string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, auditEntry{Action: action, EntityType: entityType, EntityID: entityID})
}

func (f *fakeLogService) RecordSecurity(eventType string, userID uint, username, ip, userAgent, details string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.security = append(f.security, eventType)
}

func (f *fakeLogService) RecordSystem(level, source, message string) {}
func (f *fakeLogService) RecordPerformance(endpoint, method string, status int, duration time.Duration) {
}

func (f *fakeLogService) ListAudit(filter repository.LogFilter, offset, limit int) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeLogService) ListSecurity(filter repository.LogFilter, offset, limit int) ([]models.SecurityLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeLogService) ListSystem(filter repository.LogFilter, offset, limit int) ([]models.SystemLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeLogService) ListPerformance(filter repository.LogFilter, offset, limit int) ([]models.PerformanceLog, int64, error) {
	return nil, 0, nil
}
func (f *fakeLogService) Prune(logType string, cutoff time.Time) (int64, error) { return 0, nil }

func (f *fakeLogService) auditActions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.audits))
	for _, a := range f.audits {
		out = append(out, a.Action)
	}
	return out
}

type fakeBaseRepo struct{}

func (fakeBaseRepo) InTransaction(fn func(tx *gorm.DB) error) error { return fn(nil) }

type fakeAppRepo struct {
	mu     sync.Mutex
	nextID uint
	apps   map[uint]models.Application
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[uint]models.Application)}
}

func (f *fakeAppRepo) GetByID(tx *gorm.DB, id uint) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &app, nil
}

func (f *fakeAppRepo) sorted() []models.Application {
	out := make([]models.Application, 0, len(f.apps))
	for _, a := range f.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func page(apps []models.Application, offset, limit int) []models.Application {
	if offset >= len(apps) {
		return nil
	}
	end := offset + limit
	if end > len(apps) {
		end = len(apps)
	}
	return apps[offset:end]
}

func (f *fakeAppRepo) List(tx *gorm.DB, offset, limit int) ([]models.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted()
	return page(all, offset, limit), int64(len(all)), nil
}

func (f *fakeAppRepo) ListByOwner(tx *gorm.DB, ownerID uint, offset, limit int) ([]models.Application, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []models.Application
	for _, a := range f.sorted() {
		if a.OwnerID == ownerID {
			owned = append(owned, a)
		}
	}
	return page(owned, offset, limit), int64(len(owned)), nil
}

func (f *fakeAppRepo) Create(tx *gorm.DB, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	app.ID = f.nextID
	f.apps[app.ID] = *app
	return nil
}

func (f *fakeAppRepo) Update(tx *gorm.DB, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps[app.ID] = *app
	return nil
}

func (f *fakeAppRepo) DeleteByID(tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.apps, id)
	return nil
}

func (f *fakeAppRepo) CountByOwnerAndName(tx *gorm.DB, ownerID uint, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, a := range f.apps {
		if a.OwnerID == ownerID && a.Name == name {
			n++
		}
	}
	return n, nil
}

type fakeConnRepo struct {
	mu     sync.Mutex
	nextID uint
	conns  map[uint]models.DatabaseConnection
}

func newFakeConnRepo() *fakeConnRepo {
	return &fakeConnRepo{conns: make(map[uint]models.DatabaseConnection)}
}

func (f *fakeConnRepo) GetByID(tx *gorm.DB, id uint) (*models.DatabaseConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (f *fakeConnRepo) ListByApplication(tx *gorm.DB, appID uint) ([]models.DatabaseConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DatabaseConnection
	for _, c := range f.conns {
		if c.ApplicationID == appID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConnRepo) List(tx *gorm.DB, offset, limit int) ([]models.DatabaseConnection, int64, error) {
	return nil, 0, nil
}

func (f *fakeConnRepo) Create(tx *gorm.DB, conn *models.DatabaseConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	conn.ID = f.nextID
	f.conns[conn.ID] = *conn
	return nil
}

func (f *fakeConnRepo) Update(tx *gorm.DB, conn *models.DatabaseConnection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn.ID] = *conn
	return nil
}

func (f *fakeConnRepo) DeleteByID(tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, id)
	return nil
}

func (f *fakeConnRepo) DeleteByApplication(tx *gorm.DB, appID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.conns {
		if c.ApplicationID == appID {
			delete(f.conns, id)
		}
	}
	return nil
}

func (f *fakeConnRepo) CountByApplicationAndName(tx *gorm.DB, appID uint, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.conns {
		if c.ApplicationID == appID && c.Name == name {
			n++
		}
	}
	return n, nil
}

func (f *fakeConnRepo) UpdateTestResult(tx *gorm.DB, id uint, success bool, message string, millis int64, testedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.LastTestSuccess = success
	c.LastTestMessage = message
	c.LastTestMillis = millis
	c.LastTestedAt = &testedAt
	if success {
		c.Status = models.ConnectionStatusHealthy
	} else {
		c.Status = models.ConnectionStatusFailed
	}
	f.conns[id] = c
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uint]models.ConnectionTestSchedule
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: make(map[uint]models.ConnectionTestSchedule)}
}

func (f *fakeScheduleRepo) GetByID(tx *gorm.DB, id uint) (*models.ConnectionTestSchedule, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeScheduleRepo) GetByApplicationID(tx *gorm.DB, appID uint) (*models.ConnectionTestSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[appID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (f *fakeScheduleRepo) ListDue(tx *gorm.DB, now time.Time) ([]models.ConnectionTestSchedule, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) Create(tx *gorm.DB, s *models.ConnectionTestSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[s.ApplicationID] = *s
	return nil
}

func (f *fakeScheduleRepo) Update(tx *gorm.DB, s *models.ConnectionTestSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[s.ApplicationID] = *s
	return nil
}

func (f *fakeScheduleRepo) DeleteByApplicationID(tx *gorm.DB, appID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.schedules, appID)
	return nil
}

func (f *fakeScheduleRepo) UpdateRunResult(tx *gorm.DB, id uint, runAt time.Time, status, message string, millis int64, nextRun time.Time) error {
	return nil
}

type fakeRoleRepo struct {
	mu     sync.Mutex
	nextID uint
	roles  map[uint]models.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]models.Role)}
}

func (f *fakeRoleRepo) seed(role models.Role) uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	role.ID = f.nextID
	f.roles[role.ID] = role
	return role.ID
}

func (f *fakeRoleRepo) GetByID(tx *gorm.DB, id uint) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeRoleRepo) GetByName(tx *gorm.DB, name string) (*models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r.Name == name {
			r := r
			return &r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleRepo) List(tx *gorm.DB, offset, limit int) ([]models.Role, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Role, 0, len(f.roles))
	for _, r := range f.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeRoleRepo) Create(tx *gorm.DB, role *models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	role.ID = f.nextID
	f.roles[role.ID] = *role
	return nil
}

func (f *fakeRoleRepo) Update(tx *gorm.DB, role *models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[role.ID] = *role
	return nil
}

func (f *fakeRoleRepo) DeleteByID(tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles, id)
	return nil
}

func (f *fakeRoleRepo) CountByName(tx *gorm.DB, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.roles {
		if r.Name == name {
			n++
		}
	}
	return n, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]models.User)}
}

func (f *fakeUserRepo) GetByID(tx *gorm.DB, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByUsername(tx *gorm.DB, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(tx *gorm.DB, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByRefreshToken(tx *gorm.DB, token string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.RefreshToken == token {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) List(tx *gorm.DB, offset, limit int) ([]models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Create(tx *gorm.DB, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(tx *gorm.DB, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) DeleteByID(tx *gorm.DB, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) CountByUsernameOrEmail(tx *gorm.DB, username, email string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) UpdateRefreshToken(tx *gorm.DB, id uint, token string, expiry *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.RefreshToken = token
	u.RefreshTokenExpiry = expiry
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(tx *gorm.DB, id uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLoginAt = &at
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePasswordHash(tx *gorm.DB, id uint, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

type fakeUserRoleRepo struct {
	mu          sync.Mutex
	assignments []models.UserRole
	roles       *fakeRoleRepo
}

func newFakeUserRoleRepo(roles *fakeRoleRepo) *fakeUserRoleRepo {
	return &fakeUserRoleRepo{roles: roles}
}

func (f *fakeUserRoleRepo) GetActiveRoleNames(tx *gorm.DB, userID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, a := range f.assignments {
		if a.UserID != userID || !a.Active {
			continue
		}
		if role, err := f.roles.GetByID(nil, a.RoleID); err == nil && role.Active {
			names = append(names, role.Name)
		}
	}
	return names, nil
}

func (f *fakeUserRoleRepo) GetByUserAndRole(tx *gorm.DB, userID, roleID uint) (*models.UserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assignments {
		if f.assignments[i].UserID == userID && f.assignments[i].RoleID == roleID {
			a := f.assignments[i]
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRoleRepo) ListByUser(tx *gorm.DB, userID uint) ([]models.UserRole, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.UserRole
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeUserRoleRepo) Create(tx *gorm.DB, ur *models.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assignments = append(f.assignments, *ur)
	return nil
}

func (f *fakeUserRoleRepo) Update(tx *gorm.DB, ur *models.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.assignments {
		if f.assignments[i].UserID == ur.UserID && f.assignments[i].RoleID == ur.RoleID {
			f.assignments[i] = *ur
		}
	}
	return nil
}

func (f *fakeUserRoleRepo) DeleteByUserAndRole(tx *gorm.DB, userID, roleID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.assignments[:0]
	for _, a := range f.assignments {
		if !(a.UserID == userID && a.RoleID == roleID) {
			kept = append(kept, a)
		}
	}
	f.assignments = kept
	return nil
}

func (f *fakeUserRoleRepo) DeleteByUser(tx *gorm.DB, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.assignments[:0]
	for _, a := range f.assignments {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	f.assignments = kept
	return nil
}

func seedConnection(conns *fakeConnRepo, appID uint, name, password string) uint {
	c := models.DatabaseConnection{
		ApplicationID: appID,
		Name:          name,
		Type:          models.TypeMySQL,
		Host:          "db.internal",
		Port:          3306,
		DatabaseName:  "orders",
		Username:      "svc",
		Password:      password,
		Status:        models.ConnectionStatusUntested,
	}
	conns.Create(nil, &c)
	return c.ID
}

type fakeProber struct {
	result probe.Result
}

func (f *fakeProber) Probe(ctx context.Context, conn *models.DatabaseConnection) probe.Result {
	return f.result
}
