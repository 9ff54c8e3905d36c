// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns "visitor", "", NilObjectID, false, so ok=true always means a
// valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// Department returns the current user's department (normalized by login),
// or "" if no user is present.
func Department(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return user.Department
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleAdmin
}

// IsHR reports whether the current request's user is HR.
func IsHR(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleHR
}

// IsManager reports whether the current request's user is a manager.
func IsManager(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleManager
}

// IsHOD reports whether the current request's user is a head of department.
func IsHOD(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == RoleHOD
}

// CanManageMappings reports whether the current user may edit the
// manager↔employee assignment graph. HR owns the mapping panel; admins can
// step in.
func CanManageMappings(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == RoleHR || role == RoleAdmin)
}
