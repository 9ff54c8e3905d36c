// internal/app/features/mappings/handler.go
package mappings

import (
	"context"
	"errors"
	"net/http"
	"strings"

	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/httpjson"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the manager-assignment endpoints used by the HR panel.
type Handler struct {
	Users       *userstore.Store
	Assignments *assignmentstore.Store
	Log         *zap.Logger
}

func NewHandler(users *userstore.Store, assignments *assignmentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Assignments: assignments, Log: logger}
}

// mappingRequest is the JSON body for map and unmap.
type mappingRequest struct {
	EmployeeID string `json:"employee_id"`
	ManagerID  string `json:"manager_id"`
}

func (m mappingRequest) ids() (employee, manager primitive.ObjectID, err error) {
	employee, err = primitive.ObjectIDFromHex(strings.TrimSpace(m.EmployeeID))
	if err != nil {
		return employee, manager, apperr.Validation("employee_id must be a valid id")
	}
	manager, err = primitive.ObjectIDFromHex(strings.TrimSpace(m.ManagerID))
	if err != nil {
		return employee, manager, apperr.Validation("manager_id must be a valid id")
	}
	return employee, manager, nil
}

// ServeMap handles POST /mappings.
func (h *Handler) ServeMap(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	var body mappingRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	employeeID, managerID, err := body.ids()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	a, err := h.Assignments.Map(ctx, employeeID, managerID, callerID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("manager mapped",
		zap.String("employee_id", employeeID.Hex()),
		zap.String("manager_id", managerID.Hex()),
		zap.String("mapped_by", callerID.Hex()))

	httpjson.Write(w, http.StatusCreated, a)
}

// ServeUnmap handles DELETE /mappings.
func (h *Handler) ServeUnmap(w http.ResponseWriter, r *http.Request) {
	var body mappingRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	employeeID, managerID, err := body.ids()
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	if err := h.Assignments.Unmap(ctx, employeeID, managerID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("manager unmapped",
		zap.String("employee_id", employeeID.Hex()),
		zap.String("manager_id", managerID.Hex()))

	httpjson.Write(w, http.StatusOK, map[string]string{"result": "unmapped"})
}

// ServeListByManager handles GET /mappings/manager/{id}. Returns the
// employees currently mapped to one manager, with the assignment records.
func (h *Handler) ServeListByManager(w http.ResponseWriter, r *http.Request) {
	managerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.NotFound("manager not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Users.GetManagerByID(ctx, managerID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.NotFound("manager not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	assignments, err := h.Assignments.ListByManager(ctx, managerID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	employees := make([]any, 0, len(assignments))
	for _, a := range assignments {
		emp, err := h.Users.GetByID(ctx, a.EmployeeID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			httpjson.Error(w, h.Log, err)
			return
		}
		employees = append(employees, map[string]any{
			"id":         emp.ID.Hex(),
			"full_name":  emp.FullName,
			"email":      emp.Email,
			"department": emp.Department,
			"mapped_at":  a.CreatedAt,
		})
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"employees": employees})
}

// ServeListByEmployee handles GET /mappings/employee/{id}. Returns the
// employee's current assignment records with the manager hydrated, so HR
// sees who holds the mapping before unmapping or remapping.
func (h *Handler) ServeListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.NotFound("employee not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if _, err := h.Users.GetEmployeeByID(ctx, employeeID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.NotFound("employee not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	assignments, err := h.Assignments.ListByEmployee(ctx, employeeID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	managers := make([]any, 0, len(assignments))
	for _, a := range assignments {
		mgr, err := h.Users.GetByID(ctx, a.ManagerID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			httpjson.Error(w, h.Log, err)
			return
		}
		managers = append(managers, map[string]any{
			"id":        mgr.ID.Hex(),
			"full_name": mgr.FullName,
			"email":     mgr.Email,
			"mapped_at": a.CreatedAt,
		})
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"managers": managers})
}

// ServeManagers handles GET /mappings/managers. Lists the active managers
// of one department so HR can pick a mapping target.
func (h *Handler) ServeManagers(w http.ResponseWriter, r *http.Request) {
	dept := strings.TrimSpace(r.URL.Query().Get("department"))
	if dept == "" {
		httpjson.Error(w, h.Log, apperr.Validation("department is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	managers, err := h.Users.ListManagersByDepartment(ctx, dept)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]map[string]any, 0, len(managers))
	for _, m := range managers {
		out = append(out, map[string]any{
			"id":        m.ID.Hex(),
			"full_name": m.FullName,
			"email":     m.Email,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"managers": out})
}

// hodRequest is the JSON body for PUT /mappings/hod. An empty hod_id
// clears the employee's head-of-department link.
type hodRequest struct {
	EmployeeID string `json:"employee_id"`
	HODID      string `json:"hod_id"`
}

// ServeSetHOD handles PUT /mappings/hod. Points an employee (or manager)
// at the head of department who reviews their requests.
func (h *Handler) ServeSetHOD(w http.ResponseWriter, r *http.Request) {
	var body hodRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	employeeID, err := primitive.ObjectIDFromHex(strings.TrimSpace(body.EmployeeID))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("employee_id must be a valid id"))
		return
	}
	var hodID *primitive.ObjectID
	if trimmed := strings.TrimSpace(body.HODID); trimmed != "" {
		id, err := primitive.ObjectIDFromHex(trimmed)
		if err != nil {
			httpjson.Error(w, h.Log, apperr.Validation("hod_id must be a valid id or empty"))
			return
		}
		hodID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if hodID != nil {
		u, err := h.Users.GetByID(ctx, *hodID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				httpjson.Error(w, h.Log, apperr.NotFound("hod not found"))
				return
			}
			httpjson.Error(w, h.Log, err)
			return
		}
		if u.Role != authz.RoleHOD {
			httpjson.Error(w, h.Log, apperr.InvalidRole("hod_id must reference a head of department"))
			return
		}
	}

	if err := h.Users.SetHOD(ctx, employeeID, hodID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("hod link updated",
		zap.String("employee_id", employeeID.Hex()),
		zap.Bool("cleared", hodID == nil))

	httpjson.Write(w, http.StatusOK, map[string]string{"result": "updated"})
}

// ServeUnassigned handles GET /mappings/unassigned. Optional ?department=
// narrows the listing.
func (h *Handler) ServeUnassigned(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	dept := strings.TrimSpace(r.URL.Query().Get("department"))
	users, err := h.Users.ListUnassignedEmployees(ctx, dept)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]any{
			"id":         u.ID.Hex(),
			"full_name":  u.FullName,
			"email":      u.Email,
			"department": u.Department,
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"employees": out})
}
