// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	loginstore "github.com/dalemusser/trainhub/internal/app/store/logins"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/app/system/httpjson"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/app/system/timeouts"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves password sign-in.
type Handler struct {
	Users      *userstore.Store
	Logins     *loginstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, logins *loginstore.Store, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Logins: logins, SessionMgr: sm, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /login. A wrong email and a wrong password
// produce the same response, so the endpoint does not leak which emails
// have accounts.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httpjson.Decode(r, &body); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if strings.TrimSpace(body.Email) == "" || body.Password == "" {
		httpjson.Error(w, h.Log, apperr.Validation("email and password are required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, body.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.unauthorized(w)
			return
		}
		httpjson.Error(w, h.Log, err)
		return
	}
	if user.Status == status.Disabled {
		h.unauthorized(w)
		return
	}
	if !h.Users.VerifyPassword(user, body.Password) {
		h.unauthorized(w)
		return
	}

	sessionID := uuid.NewString()
	su := &auth.SessionUser{
		ID:         user.ID.Hex(),
		Name:       user.FullName,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		SessionID:  sessionID,
	}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	// The audit insert must not fail the sign-in.
	if err := h.Logins.CreateFrom(ctx, r, user.ID, sessionID, user.Role); err != nil {
		h.Log.Warn("failed to record login",
			zap.Error(err),
			zap.String("user_id", user.ID.Hex()))
	}

	h.Log.Info("user signed in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role),
		zap.String("session_id", sessionID))

	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":         user.ID.Hex(),
		"full_name":  user.FullName,
		"email":      user.Email,
		"role":       user.Role,
		"department": user.Department,
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter) {
	httpjson.Write(w, http.StatusUnauthorized, map[string]string{
		"error": "invalid email or password",
	})
}
