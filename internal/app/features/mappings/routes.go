// internal/app/features/mappings/routes.go
package mappings

import (
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the mapping endpoints. The assignment
// graph is managed by hr and admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("hr", "admin"))

	r.Post("/", h.ServeMap)
	r.Delete("/", h.ServeUnmap)
	r.Put("/hod", h.ServeSetHOD)
	r.Get("/manager/{id}", h.ServeListByManager)
	r.Get("/employee/{id}", h.ServeListByEmployee)
	r.Get("/managers", h.ServeManagers)
	r.Get("/unassigned", h.ServeUnassigned)

	return r
}
