package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

// AdminUser returns a TestUser with admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Admin",
		Email: "admin@test.com",
		Role:  "admin",
	}
}

// HRUser returns a TestUser with hr role.
func HRUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test HR",
		Email: "hr@test.com",
		Role:  "hr",
	}
}

// ManagerUser returns a TestUser with manager role in a department.
func ManagerUser(department string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Manager",
		Email:      "manager@test.com",
		Role:       "manager",
		Department: department,
	}
}

// HODUser returns a TestUser with hod role in a department.
func HODUser(department string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test HOD",
		Email:      "hod@test.com",
		Role:       "hod",
		Department: department,
	}
}

// EmployeeUser returns a TestUser with employee role in a department.
func EmployeeUser(department string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Employee",
		Email:      "employee@test.com",
		Role:       "employee",
		Department: department,
	}
}

// AsTestUser adapts a stored user so handler tests can act as that account.
func AsTestUser(id primitive.ObjectID, name, email, role, department string) TestUser {
	return TestUser{
		ID:         id.Hex(),
		Name:       name,
		Email:      email,
		Role:       role,
		Department: department,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
