package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"go.uber.org/zap"
)

const testKey = "0123456789ABCDEF0123456789ABCDEF"

func newManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "trainhub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "n", "", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignIn_RoundTrip(t *testing.T) {
	sm := newManager(t)

	// Sign in and capture the cookie.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	user := &auth.SessionUser{
		ID:         "65f000000000000000000001",
		Name:       "Dana Employee",
		Email:      "dana@example.com",
		Role:       "employee",
		Department: "it",
	}
	if err := sm.SignIn(rec, req, user); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through LoadSessionUser.
	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req2 := httptest.NewRequest("GET", "/training-requests/mine", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected user in context after replaying cookie")
	}
	if got.ID != user.ID || got.Role != user.Role || got.Department != user.Department {
		t.Errorf("context user mismatch: got %+v, want %+v", got, user)
	}
}

func TestRequireSignedIn_Anonymous(t *testing.T) {
	sm := newManager(t)
	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run for anonymous caller")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/training-requests/mine", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireRole(t *testing.T) {
	sm := newManager(t)

	called := false
	handler := sm.RequireRole("hr", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// Wrong role → 403.
	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("POST", "/mappings", nil),
		&auth.SessionUser{ID: "x", Role: "employee"})
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("employee: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if called {
		t.Error("handler must not run for forbidden role")
	}

	// Allowed role, case-insensitive → pass.
	rec = httptest.NewRecorder()
	req = auth.WithTestUser(httptest.NewRequest("POST", "/mappings", nil),
		&auth.SessionUser{ID: "x", Role: "HR"})
	handler.ServeHTTP(rec, req)
	if !called {
		t.Error("handler should run for allowed role")
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", nil)
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a deletion cookie")
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("MaxAge: got %d, want -1", cookies[0].MaxAge)
	}
}
