package login_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trainhub/internal/app/features/login"
	loginstore "github.com/dalemusser/trainhub/internal/app/store/logins"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/dalemusser/trainhub/internal/testutil"
	"go.uber.org/zap"
)

func loginBody(t *testing.T, email, password string) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func TestServeLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	logins := loginstore.New(db)
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "trainhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := login.NewHandler(users, logins, sm, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := users.Create(ctx, models.User{
		FullName:   "Amina Yusuf",
		Email:      "amina@example.com",
		Role:       "manager",
		Department: "ops",
	}, "correct-horse")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// wrong password
	req := httptest.NewRequest("POST", "/login", loginBody(t, "amina@example.com", "wrong"))
	rec := testutil.NewRecorder()
	h.ServeLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)

	// unknown email gets the identical response
	req = httptest.NewRequest("POST", "/login", loginBody(t, "nobody@example.com", "whatever"))
	rec2 := testutil.NewRecorder()
	h.ServeLogin(rec2.ResponseRecorder, req)
	rec2.AssertStatus(t, http.StatusUnauthorized)
	if rec.Body.String() != rec2.Body.String() {
		t.Error("wrong-password and unknown-email responses should be indistinguishable")
	}

	// correct credentials
	req = httptest.NewRequest("POST", "/login", loginBody(t, "Amina@Example.com", "correct-horse"))
	rec = testutil.NewRecorder()
	h.ServeLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "amina@example.com")

	if rec.Header().Get("Set-Cookie") == "" {
		t.Error("expected a session cookie")
	}

	// a login record lands in the audit trail
	recs, err := logins.ListByUser(ctx, created.ID, 0)
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 login record, got %d", len(recs))
	}
	if recs[0].Role != "manager" || recs[0].SessionID == "" {
		t.Error("expected role and session id recorded")
	}
}

func TestServeLogin_DisabledUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "trainhub_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := login.NewHandler(users, loginstore.New(db), sm, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := users.Create(ctx, models.User{
		FullName:   "Gone",
		Email:      "gone@example.com",
		Role:       "employee",
		Department: "ops",
		Status:     "disabled",
	}, "pw"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	req := httptest.NewRequest("POST", "/login", loginBody(t, "gone@example.com", "pw"))
	rec := testutil.NewRecorder()
	h.ServeLogin(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnauthorized)
}
