// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// Role constants. Role is fixed per account, not per request.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHOD      = "hod"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

// IsKnownRole reports whether role is one of the five account roles.
func IsKnownRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleEmployee, RoleManager, RoleHOD, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// HasAnyRole reports whether the current request's user has any of the
// given roles. Returns false if no user is present.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}
