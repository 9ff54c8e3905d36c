package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	role, name, uid, ok := authz.UserCtx(req)
	if ok {
		t.Fatal("expected ok=false with no user in context")
	}
	if role != "visitor" || name != "" || uid != primitive.NilObjectID {
		t.Errorf("zero result mismatch: %q %q %v", role, name, uid)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: "not-an-objectid", Role: "admin"})
	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Fatal("malformed object id must fail closed")
	}
}

func TestUserCtx_LowercasesRole(t *testing.T) {
	id := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil),
		&auth.SessionUser{ID: id.Hex(), Name: "Pat", Role: "Manager"})
	role, name, uid, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "manager" || name != "Pat" || uid != id {
		t.Errorf("got %q %q %v", role, name, uid)
	}
}

func TestCanManageMappings(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"hr", true},
		{"admin", true},
		{"manager", false},
		{"hod", false},
		{"employee", false},
	}
	for _, tt := range tests {
		req := auth.WithTestUser(httptest.NewRequest("POST", "/mappings", nil),
			&auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: tt.role})
		if got := authz.CanManageMappings(req); got != tt.want {
			t.Errorf("CanManageMappings(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestIsKnownRole(t *testing.T) {
	for _, role := range []string{"employee", "manager", "hod", "hr", "admin", " HR "} {
		if !authz.IsKnownRole(role) {
			t.Errorf("IsKnownRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "visitor", "superadmin"} {
		if authz.IsKnownRole(role) {
			t.Errorf("IsKnownRole(%q) = true, want false", role)
		}
	}
}
