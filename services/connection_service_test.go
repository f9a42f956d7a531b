package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"camsapi/config"
	"camsapi/models"
	"camsapi/services/dto"
	"camsapi/services/probe"
	"camsapi/utils"
)

func newTestConnectionService(p probe.Prober) (ConnectionService, *fakeAppRepo, *fakeConnRepo) {
	apps := newFakeAppRepo()
	conns := newFakeConnRepo()
	if p == nil {
		p = &fakeProber{}
	}
	srv := NewConnectionServiceWithDeps(apps, conns, p, &fakeLogService{})
	return srv, apps, conns
}

func seedApp(apps *fakeAppRepo, ownerID uint) uint {
	app := models.Application{OwnerID: ownerID, Name: "billing", Active: true}
	apps.Create(nil, &app)
	return app.ID
}

// TestConnectionUpdate_EmptySecretKeepsStored tests that an update omitting
// secrets leaves the persisted secrets untouched.
func TestConnectionUpdate_EmptySecretKeepsStored(t *testing.T) {
	srv, apps, conns := newTestConnectionService(nil)
	actor := Actor{UserID: 1, Username: "alice"}
	appID := seedApp(apps, actor.UserID)
	connID := seedConnection(conns, appID, "orders-db", "hunter2")

	resp, err := srv.Update(context.Background(), connID, dto.ConnectionUpdateRequest{
		Name:         "orders-db-primary",
		Type:         models.TypeMySQL,
		Host:         "db2.internal",
		Port:         3307,
		DatabaseName: "orders",
		Username:     "svc",
	}, actor, false)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, err := conns.GetByID(nil, connID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Password != "hunter2" {
		t.Errorf("Expected stored password kept, got %q", stored.Password)
	}
	if stored.Name != "orders-db-primary" || stored.Host != "db2.internal" || stored.Port != 3307 {
		t.Errorf("Expected editable fields replaced, got %+v", stored)
	}
	if !resp.HasPassword {
		t.Error("Expected the response to flag the kept password")
	}
}

// TestConnectionUpdate_NewSecretReplaces tests that a supplied secret
// overwrites the stored one.
func TestConnectionUpdate_NewSecretReplaces(t *testing.T) {
	srv, apps, conns := newTestConnectionService(nil)
	actor := Actor{UserID: 1, Username: "alice"}
	appID := seedApp(apps, actor.UserID)
	connID := seedConnection(conns, appID, "orders-db", "hunter2")

	_, err := srv.Update(context.Background(), connID, dto.ConnectionUpdateRequest{
		Name:         "orders-db",
		Type:         models.TypeMySQL,
		Host:         "db.internal",
		Port:         3306,
		DatabaseName: "orders",
		Password:     "rotated",
	}, actor, false)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored, _ := conns.GetByID(nil, connID)
	if stored.Password != "rotated" {
		t.Errorf("Expected password replaced, got %q", stored.Password)
	}
}

// TestConnectionGet_OwnershipEnforced tests that connections of another
// tenant's application read as not-found.
func TestConnectionGet_OwnershipEnforced(t *testing.T) {
	srv, apps, conns := newTestConnectionService(nil)
	appID := seedApp(apps, 1)
	connID := seedConnection(conns, appID, "orders-db", "hunter2")

	bob := Actor{UserID: 2, Username: "bob"}
	if _, err := srv.Get(context.Background(), connID, bob, false); !utils.IsNotFound(err) {
		t.Errorf("Expected not-found for foreign connection, got %v", err)
	}
	if err := srv.Delete(context.Background(), connID, bob, false); !utils.IsNotFound(err) {
		t.Errorf("Expected not-found on foreign delete, got %v", err)
	}
	if _, err := srv.ListByApplication(context.Background(), appID, bob, false); !utils.IsNotFound(err) {
		t.Errorf("Expected not-found for foreign listing, got %v", err)
	}

	if _, err := srv.Get(context.Background(), connID, bob, true); err != nil {
		t.Errorf("Expected admin access to any connection, got %v", err)
	}
}

// TestConnectionCreate_KindRulesCollected tests that kind violations are
// collected, not returned one at a time.
func TestConnectionCreate_KindRulesCollected(t *testing.T) {
	srv, apps, _ := newTestConnectionService(nil)
	actor := Actor{UserID: 1, Username: "alice"}
	appID := seedApp(apps, actor.UserID)

	_, err := srv.Create(context.Background(), appID, dto.ConnectionCreateRequest{
		Name: "orders-db",
		Type: models.TypePostgreSQL,
	}, actor, false)

	var ve *utils.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected a validation error, got %v", err)
	}
	joined := strings.Join(ve.Messages, "; ")
	for _, want := range []string{"host is required", "port must be between", "database name is required"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected violation %q in %v", want, ve.Messages)
		}
	}
}

// TestConnectionTest_RecordsOutcome tests that an on-demand probe persists
// its result with the message verbatim.
func TestConnectionTest_RecordsOutcome(t *testing.T) {
	config.Cfg.ProbeTimeout = time.Second
	p := &fakeProber{result: probe.Result{
		Success:  false,
		Message:  "dial tcp: connection refused",
		Duration: 42 * time.Millisecond,
	}}
	srv, apps, conns := newTestConnectionService(p)
	actor := Actor{UserID: 1, Username: "alice"}
	appID := seedApp(apps, actor.UserID)
	connID := seedConnection(conns, appID, "orders-db", "hunter2")

	resp, err := srv.Test(context.Background(), connID, actor, false)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.LastTestSuccess || resp.Status != models.ConnectionStatusFailed {
		t.Errorf("Expected failed status, got %+v", resp)
	}
	if resp.LastTestMessage != "dial tcp: connection refused" {
		t.Errorf("Expected message recorded verbatim, got %q", resp.LastTestMessage)
	}

	stored, _ := conns.GetByID(nil, connID)
	if stored.Status != models.ConnectionStatusFailed || stored.LastTestMessage != "dial tcp: connection refused" {
		t.Errorf("Expected persisted failure, got %+v", stored)
	}
	if stored.LastTestMillis != 42 {
		t.Errorf("Expected 42ms recorded, got %d", stored.LastTestMillis)
	}
}

// TestConnectionCreate_DuplicateNameRejected tests per-application name
// uniqueness.
func TestConnectionCreate_DuplicateNameRejected(t *testing.T) {
	srv, apps, _ := newTestConnectionService(nil)
	actor := Actor{UserID: 1, Username: "alice"}
	appID := seedApp(apps, actor.UserID)

	req := dto.ConnectionCreateRequest{
		Name:         "orders-db",
		Type:         models.TypeMySQL,
		Host:         "db.internal",
		Port:         3306,
		DatabaseName: "orders",
	}
	if _, err := srv.Create(context.Background(), appID, req, actor, false); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := srv.Create(context.Background(), appID, req, actor, false)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected duplicate rejection, got %v", err)
	}
}
