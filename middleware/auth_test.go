package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"camsapi/models"
	"camsapi/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRoleSource struct {
	roles  []string
	err    error
	called int
}

func (f *fakeRoleSource) ActiveRoleNames(userID uint) ([]string, error) {
	f.called++
	return f.roles, f.err
}

type fakeSecurityRecorder struct {
	events []string
}

func (f *fakeSecurityRecorder) RecordSecurity(eventType string, userID uint, username, ip, userAgent, details string) {
	f.events = append(f.events, eventType)
}

func testRouter(tokens *token.Manager, roles RoleSource, sec SecurityRecorder, required ...string) *gin.Engine {
	r := gin.New()
	r.GET("/guarded", RequireAuth(tokens), RequireRoles(roles, sec, required...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRequireAuth_MissingToken_RejectedBeforeRoleLookup tests that an
// unauthenticated request gets 401 without touching the role source.
func TestRequireAuth_MissingToken_RejectedBeforeRoleLookup(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	roles := &fakeRoleSource{roles: []string{models.RoleAdmin}}

	r := testRouter(tokens, roles, nil, models.RoleAdmin)
	w := doRequest(r, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
	if roles.called != 0 {
		t.Errorf("Expected role source untouched for unauthenticated request, called %d times", roles.called)
	}
}

// TestRequireAuth_MalformedHeader tests rejection of non-bearer headers.
func TestRequireAuth_MalformedHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	roles := &fakeRoleSource{roles: []string{models.RoleAdmin}}
	r := testRouter(tokens, roles, nil, models.RoleAdmin)

	for _, header := range []string{"Basic abc", "Bearer", "just-a-token"} {
		w := doRequest(r, header)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, w.Code)
		}
	}
	if roles.called != 0 {
		t.Errorf("Expected role source untouched, called %d times", roles.called)
	}
}

// TestRequireAuth_InvalidToken tests rejection of tokens signed with the
// wrong secret.
func TestRequireAuth_InvalidToken(t *testing.T) {
	issuer := token.NewManager("other-secret", 15*time.Minute)
	verifier := token.NewManager("test-secret", 15*time.Minute)

	forged, err := issuer.IssueAccessToken(1, "mallory", nil)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	r := testRouter(verifier, &fakeRoleSource{}, nil, models.RoleAdmin)
	w := doRequest(r, "Bearer "+forged)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for forged token, got %d", w.Code)
	}
}

// TestRequireRoles_AnyRequiredRoleGrants tests OR semantics: one matching
// role out of several required is enough.
func TestRequireRoles_AnyRequiredRoleGrants(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	access, err := tokens.IssueAccessToken(42, "alice", []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	roles := &fakeRoleSource{roles: []string{models.RoleViewer}}
	r := testRouter(tokens, roles, nil, models.RoleAdmin, models.RoleManager, models.RoleViewer)

	w := doRequest(r, "Bearer "+access)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for user holding one required role, got %d", w.Code)
	}
	if roles.called != 1 {
		t.Errorf("Expected exactly one role lookup, got %d", roles.called)
	}
}

// TestRequireRoles_NoMatchingRole_Forbidden tests the distinct 403 and the
// access_denied security event.
func TestRequireRoles_NoMatchingRole_Forbidden(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	access, err := tokens.IssueAccessToken(42, "alice", []string{models.RoleViewer})
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	roles := &fakeRoleSource{roles: []string{models.RoleViewer}}
	sec := &fakeSecurityRecorder{}
	r := testRouter(tokens, roles, sec, models.RoleAdmin)

	w := doRequest(r, "Bearer "+access)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for authenticated user without required role, got %d", w.Code)
	}
	if len(sec.events) != 1 || sec.events[0] != models.SecurityEventAccessDenied {
		t.Errorf("Expected one access_denied security event, got %v", sec.events)
	}
}

// TestRequireRoles_TokenRolesIgnored tests that the role claim baked into
// the token does not grant anything: the database is the authority.
func TestRequireRoles_TokenRolesIgnored(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	// Token claims Admin, but the store says the user holds nothing active.
	access, err := tokens.IssueAccessToken(42, "alice", []string{models.RoleAdmin})
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	roles := &fakeRoleSource{roles: nil}
	r := testRouter(tokens, roles, nil, models.RoleAdmin)

	w := doRequest(r, "Bearer "+access)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 when store grants nothing, got %d", w.Code)
	}
}

// TestRequireRoles_LookupErrorFailsClosed tests that a role source failure
// denies the request.
func TestRequireRoles_LookupErrorFailsClosed(t *testing.T) {
	tokens := token.NewManager("test-secret", 15*time.Minute)
	access, err := tokens.IssueAccessToken(42, "alice", nil)
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	roles := &fakeRoleSource{err: errors.New("connection refused")}
	r := testRouter(tokens, roles, nil, models.RoleAdmin)

	w := doRequest(r, "Bearer "+access)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 when role lookup fails, got %d", w.Code)
	}
}

// TestAuthorize tests the pure role check.
func TestAuthorize(t *testing.T) {
	cases := []struct {
		name     string
		granted  []string
		required []string
		want     bool
	}{
		{"single match", []string{"Viewer"}, []string{"Viewer"}, true},
		{"or semantics", []string{"Viewer"}, []string{"Admin", "Viewer"}, true},
		{"no match", []string{"Viewer"}, []string{"Admin"}, false},
		{"empty granted", nil, []string{"Admin"}, false},
		{"empty required", []string{"Admin"}, nil, false},
		{"case sensitive", []string{"admin"}, []string{"Admin"}, false},
	}

	for _, tc := range cases {
		if got := Authorize(tc.granted, tc.required...); got != tc.want {
			t.Errorf("%s: Authorize(%v, %v) = %v, want %v", tc.name, tc.granted, tc.required, got, tc.want)
		}
	}
}
