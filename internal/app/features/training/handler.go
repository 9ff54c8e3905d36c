// internal/app/features/training/handler.go
package training

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	requeststore "github.com/dalemusser/trainhub/internal/app/store/trainingrequests"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/httpjson"
	"github.com/dalemusser/trainhub/internal/app/system/requestnum"
	"github.com/dalemusser/trainhub/internal/app/system/routing"
	"github.com/dalemusser/trainhub/internal/app/system/sanitize"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/dalemusser/trainhub/internal/app/system/workflow"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the training-request workflow endpoints.
type Handler struct {
	Users    *userstore.Store
	Requests *requeststore.Store
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, requests *requeststore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Requests: requests, Log: logger}
}

// submitRequest is the JSON body for POST /training-requests.
type submitRequest struct {
	Answers models.TrainingAnswers `json:"answers"`
}

// decisionRequest is the JSON body for the decision endpoint.
type decisionRequest struct {
	Decision string `json:"decision"`
}

// ServeSubmit handles POST /training-requests.
//
// The requester's routing snapshot (managers, hod, initial status) is
// resolved from their user document at this moment and frozen onto the
// request. Later mapping changes do not reroute in-flight requests.
func (h *Handler) ServeSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	var body submitRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	answers := sanitizeAnswers(body.Answers)
	if missing := missingAnswerFields(answers); len(missing) > 0 {
		httpjson.Error(w, h.Log, apperr.Validation(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	requester, err := h.Users.GetByID(ctx, callerID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	res := routing.Resolve(requester)
	req := models.TrainingRequest{
		RequesterID:         requester.ID,
		RequesterName:       requester.FullName,
		RequesterDepartment: requester.Department,
		Managers:            res.Managers,
		HOD:                 res.HOD,
		Status:              res.InitialStatus,
		Answers:             answers,
	}

	created, err := h.Requests.Create(ctx, req)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("training request submitted",
		zap.String("request_number", created.RequestNumber),
		zap.String("requester_id", requester.ID.Hex()),
		zap.String("status", created.Status))

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"id":             created.ID.Hex(),
		"request_number": created.RequestNumber,
		"status":         created.Status,
		"managers":       created.Managers,
		"hod":            created.HOD,
	})
}

// ServeMine handles GET /training-requests/mine.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	reqs, err := h.Requests.ListMine(ctx, callerID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": emptyIfNil(reqs)})
}

// ServeReview handles GET /training-requests/review. Each reviewing role
// gets its own queue; hr and admin share the final-stage queue.
func (h *Handler) ServeReview(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	var (
		reqs []models.TrainingRequest
		err  error
	)
	switch role {
	case authz.RoleManager:
		reqs, err = h.Requests.ListForManager(ctx, callerID)
	case authz.RoleHOD:
		reqs, err = h.Requests.ListForHOD(ctx, callerID)
	case authz.RoleAdmin, authz.RoleHR:
		// Department scoping is queue visibility only. Explicit
		// ?department= wins; otherwise the caller's own department, which
		// is usually empty and means "all".
		dept := strings.TrimSpace(r.URL.Query().Get("department"))
		if dept == "" {
			dept = authz.Department(r)
		}
		reqs, err = h.Requests.ListForAdmin(ctx, strings.ToLower(dept))
	default:
		httpjson.Error(w, h.Log, apperr.Forbidden("your role has no review queue"))
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": emptyIfNil(reqs)})
}

// ServeDecision handles POST /training-requests/{id}/decision.
func (h *Handler) ServeDecision(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.NotFound("request not found"))
		return
	}

	var body decisionRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	req, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.NotFound("request not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	out, err := workflow.Evaluate(req, callerID, role, strings.ToLower(strings.TrimSpace(body.Decision)))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Requests.ApplyDecision(ctx, req.ID, out, callerID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	h.Log.Info("training request decided",
		zap.String("request_number", req.RequestNumber),
		zap.String("stage", out.Stage.String()),
		zap.String("reviewer_id", callerID.Hex()),
		zap.String("status", out.NextStatus))

	httpjson.Write(w, http.StatusOK, map[string]string{"status": out.NextStatus})
}

// ServeGet handles GET /training-requests/{idOrNumber}. Accepts either an
// ObjectID hex or a request number. Visible to the requester, the
// snapshotted reviewers, and the hr/admin reviewers.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	role, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	key := chi.URLParam(r, "idOrNumber")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
	defer cancel()

	var (
		req *models.TrainingRequest
		err error
	)
	if oid, idErr := primitive.ObjectIDFromHex(key); idErr == nil {
		req, err = h.Requests.GetByID(ctx, oid)
	} else if requestnum.Valid(key) {
		req, err = h.Requests.GetByRequestNumber(ctx, key)
	} else {
		httpjson.Error(w, h.Log, apperr.NotFound("request not found"))
		return
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, h.Log, apperr.NotFound("request not found"))
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}

	if !canRead(req, callerID, role) {
		httpjson.Error(w, h.Log, apperr.Forbidden("you do not have access to this request"))
		return
	}
	httpjson.Write(w, http.StatusOK, req)
}

// ServeDelete handles DELETE /training-requests/{id}. Only the requester
// may withdraw, and only while no reviewer has acted.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, callerID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, h.Log, apperr.Forbidden("sign in required"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, h.Log, apperr.NotFound("request not found"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	if err := h.Requests.DeleteOwnPending(ctx, id, callerID); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func canRead(req *models.TrainingRequest, callerID primitive.ObjectID, role string) bool {
	if role == authz.RoleAdmin || role == authz.RoleHR {
		return true
	}
	if req.RequesterID == callerID {
		return true
	}
	for _, m := range req.Managers {
		if m == callerID {
			return true
		}
	}
	return req.HOD != nil && *req.HOD == callerID
}

func sanitizeAnswers(a models.TrainingAnswers) models.TrainingAnswers {
	for _, f := range answerFields(&a) {
		*f.val = sanitize.Text(*f.val)
	}
	return a
}

func missingAnswerFields(a models.TrainingAnswers) []string {
	var missing []string
	for _, f := range answerFields(&a) {
		if strings.TrimSpace(*f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type answerField struct {
	name string
	val  *string
}

// answerFields enumerates the survey answers with their JSON names, the
// single place that knows the full field list.
func answerFields(a *models.TrainingAnswers) []answerField {
	return []answerField{
		{"generalSkills", &a.GeneralSkills},
		{"toolsTraining", &a.ToolsTraining},
		{"softSkills", &a.SoftSkills},
		{"confidenceLevel", &a.ConfidenceLevel},
		{"technicalSkills", &a.TechnicalSkills},
		{"dataTraining", &a.DataTraining},
		{"roleChallenges", &a.RoleChallenges},
		{"efficiencyTraining", &a.EfficiencyTraining},
		{"certifications", &a.Certifications},
		{"careerGoals", &a.CareerGoals},
		{"careerTraining", &a.CareerTraining},
		{"trainingFormat", &a.TrainingFormat},
		{"trainingDuration", &a.TrainingDuration},
		{"learningPreference", &a.LearningPreference},
		{"pastTraining", &a.PastTraining},
		{"pastTrainingFeedback", &a.PastTrainingFeedback},
		{"trainingImprovement", &a.TrainingImprovement},
		{"areaNeed", &a.AreaNeed},
		{"trainingFrequency", &a.TrainingFrequency},
	}
}

func emptyIfNil(reqs []models.TrainingRequest) []models.TrainingRequest {
	if reqs == nil {
		return []models.TrainingRequest{}
	}
	return reqs
}
