// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/dalemusser/trainhub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler ends the current session.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sm, Log: logger}
}

// ServeLogout handles POST /logout. Signing out an unauthenticated
// caller is a no-op, not an error.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user signed out",
			zap.String("user_id", user.ID),
			zap.String("session_id", user.SessionID))
	}
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "signed_out"})
}
