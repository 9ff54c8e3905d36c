// internal/app/features/userinfo/routes.go
package userinfo

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the userinfo endpoint. No auth
// middleware: unauthenticated callers get isAuthenticated=false.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeUserInfo)
	return r
}
