package importer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"camsapi/config"
	"camsapi/services"
	"camsapi/services/dto"
	"camsapi/utils"
)

func init() {
	config.Cfg.ImportMaxRows = 100
}

// fakeUserService records created users and rejects usernames listed in
// failOn. The embedded interface panics on anything else being called.
type fakeUserService struct {
	services.UserService
	mu      sync.Mutex
	created []dto.UserCreateRequest
	failOn  map[string]bool
}

func (f *fakeUserService) Create(ctx context.Context, req dto.UserCreateRequest, actor services.Actor) (*dto.UserResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[req.Username] {
		return nil, utils.NewBusinessRuleError("username %s already exists", req.Username)
	}
	f.created = append(f.created, req)
	return &dto.UserResponse{Username: req.Username}, nil
}

func (f *fakeUserService) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeAppService struct {
	services.ApplicationService
	mu      sync.Mutex
	created []dto.ApplicationCreateRequest
}

func (f *fakeAppService) Create(ctx context.Context, req dto.ApplicationCreateRequest, actor services.Actor) (*dto.ApplicationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	return &dto.ApplicationResponse{Name: req.Name}, nil
}

func waitForJob(t *testing.T, s Service, id string) *Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", id, err)
		}
		if job.Status == StatusCompleted || job.Status == StatusFailed {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Job %s did not finish within 2s", id)
	return nil
}

// TestStart_JSONUsers tests a clean JSON import end to end.
func TestStart_JSONUsers(t *testing.T) {
	users := &fakeUserService{}
	s := New(users, nil, nil, nil)

	payload := []byte(`[
		{"username": "alice", "email": "alice@example.com", "password": "Str0ng!pass"},
		{"username": "bob", "email": "bob@example.com", "password": "Str0ng!pass"}
	]`)

	job, err := s.Start(EntityUsers, FormatJSON, payload, services.Actor{UserID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if job.Total != 2 {
		t.Errorf("Expected 2 rows, got %d", job.Total)
	}

	done := waitForJob(t, s, job.ID)
	if done.Status != StatusCompleted {
		t.Errorf("Expected completed, got %q", done.Status)
	}
	if done.Succeeded != 2 || done.Failed != 0 {
		t.Errorf("Expected 2 succeeded / 0 failed, got %d / %d", done.Succeeded, done.Failed)
	}
	if users.createdCount() != 2 {
		t.Errorf("Expected 2 users created, got %d", users.createdCount())
	}
}

// TestStart_RowErrorsCollectedWithoutAborting tests that a failing row is
// recorded and the rest of the batch still imports.
func TestStart_RowErrorsCollectedWithoutAborting(t *testing.T) {
	users := &fakeUserService{failOn: map[string]bool{"bob": true}}
	s := New(users, nil, nil, nil)

	payload := []byte(`[
		{"username": "alice", "email": "a@example.com", "password": "Str0ng!pass"},
		{"username": "bob", "email": "b@example.com", "password": "Str0ng!pass"},
		{"username": "carol", "email": "c@example.com", "password": "Str0ng!pass"}
	]`)

	job, err := s.Start(EntityUsers, FormatJSON, payload, services.Actor{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := waitForJob(t, s, job.ID)
	if done.Status != StatusCompleted {
		t.Errorf("Expected completed despite row failure, got %q", done.Status)
	}
	if done.Succeeded != 2 || done.Failed != 1 {
		t.Errorf("Expected 2 succeeded / 1 failed, got %d / %d", done.Succeeded, done.Failed)
	}
	if len(done.Errors) != 1 {
		t.Fatalf("Expected 1 row error, got %d", len(done.Errors))
	}
	if done.Errors[0].Row != 2 || !strings.Contains(done.Errors[0].Message, "bob") {
		t.Errorf("Expected row 2 error naming bob, got %+v", done.Errors[0])
	}
}

// TestStart_TagChecksRunPerRow tests that rows failing struct tag checks are
// rejected before the entity service sees them.
func TestStart_TagChecksRunPerRow(t *testing.T) {
	users := &fakeUserService{}
	s := New(users, nil, nil, nil)

	payload := []byte(`[
		{"username": "alice", "email": "a@example.com", "password": "Str0ng!pass"},
		{"username": "bob", "password": "Str0ng!pass"}
	]`)

	job, err := s.Start(EntityUsers, FormatJSON, payload, services.Actor{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := waitForJob(t, s, job.ID)
	if done.Succeeded != 1 || done.Failed != 1 {
		t.Errorf("Expected 1 succeeded / 1 failed, got %d / %d", done.Succeeded, done.Failed)
	}
	if len(done.Errors) != 1 || done.Errors[0].Row != 2 {
		t.Fatalf("Expected a row 2 error, got %+v", done.Errors)
	}
	if !strings.Contains(strings.ToLower(done.Errors[0].Message), "email") {
		t.Errorf("Expected the missing field named, got %q", done.Errors[0].Message)
	}
	if users.createdCount() != 1 {
		t.Errorf("Expected only the valid row created, got %d", users.createdCount())
	}
}

// TestStart_CSVApplications tests the CSV path with a header row.
func TestStart_CSVApplications(t *testing.T) {
	apps := &fakeAppService{}
	s := New(nil, nil, apps, nil)

	payload := []byte("name,description,version,environment\n" +
		"billing,Billing service,2.1.0,production\n" +
		"reports,Reporting,1.0.0,staging\n")

	job, err := s.Start(EntityApplications, FormatCSV, payload, services.Actor{})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	done := waitForJob(t, s, job.ID)
	if done.Succeeded != 2 {
		t.Errorf("Expected 2 succeeded, got %d", done.Succeeded)
	}

	apps.mu.Lock()
	defer apps.mu.Unlock()
	if len(apps.created) != 2 || apps.created[0].Name != "billing" || apps.created[0].Environment != "production" {
		t.Errorf("Expected CSV fields mapped, got %+v", apps.created)
	}
}

// TestStart_RejectsBadInput tests the synchronous validation failures.
func TestStart_RejectsBadInput(t *testing.T) {
	s := New(&fakeUserService{}, nil, nil, nil)

	if _, err := s.Start("widgets", FormatJSON, []byte(`[]`), services.Actor{}); err == nil {
		t.Error("Expected unknown entity to be rejected")
	}
	if _, err := s.Start(EntityUsers, "xml", []byte(`[]`), services.Actor{}); err == nil {
		t.Error("Expected unknown format to be rejected")
	}
	if _, err := s.Start(EntityUsers, FormatJSON, []byte(`{`), services.Actor{}); err == nil {
		t.Error("Expected malformed JSON to be rejected")
	}
	if _, err := s.Start(EntityUsers, FormatJSON, []byte(`[]`), services.Actor{}); err == nil {
		t.Error("Expected empty payload to be rejected")
	}
}

// TestStart_RowLimit tests the configured row cap.
func TestStart_RowLimit(t *testing.T) {
	s := New(&fakeUserService{}, nil, nil, nil)

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 101; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"username": "u", "email": "u@example.com", "password": "p"}`)
	}
	b.WriteString("]")

	_, err := s.Start(EntityUsers, FormatJSON, []byte(b.String()), services.Actor{})
	if err == nil {
		t.Fatal("Expected over-limit payload to be rejected")
	}
	if !strings.Contains(err.Error(), "limit") {
		t.Errorf("Expected limit error, got %v", err)
	}
}

// TestList_NewestFirstAndPaginated tests job listing order and bounds.
func TestList_NewestFirstAndPaginated(t *testing.T) {
	users := &fakeUserService{}
	s := New(users, nil, nil, nil)

	payload := []byte(`[{"username": "x", "email": "x@example.com", "password": "p"}]`)
	var ids []string
	for i := 0; i < 3; i++ {
		job, err := s.Start(EntityUsers, FormatJSON, payload, services.Actor{})
		if err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		ids = append(ids, job.ID)
		waitForJob(t, s, job.ID)
		time.Sleep(2 * time.Millisecond)
	}

	jobs, total := s.List(0, 2)
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs on first page, got %d", len(jobs))
	}
	if jobs[0].ID != ids[2] {
		t.Errorf("Expected newest job first, got %s", jobs[0].ID)
	}

	rest, _ := s.List(2, 2)
	if len(rest) != 1 || rest[0].ID != ids[0] {
		t.Errorf("Expected oldest job on last page, got %+v", rest)
	}

	none, _ := s.List(10, 2)
	if len(none) != 0 {
		t.Errorf("Expected empty page past the end, got %d", len(none))
	}
}

// TestGet_UnknownJob tests the not-found path.
func TestGet_UnknownJob(t *testing.T) {
	s := New(&fakeUserService{}, nil, nil, nil)
	if _, err := s.Get("no-such-job"); !utils.IsNotFound(err) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}
