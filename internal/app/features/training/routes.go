// internal/app/features/training/routes.go
package training

import (
	"github.com/dalemusser/trainhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the training-request endpoints.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Use(sm.RequireSignedIn)

	r.Post("/", h.ServeSubmit)
	r.Get("/mine", h.ServeMine)
	r.Get("/review", h.ServeReview)
	r.Post("/{id}/decision", h.ServeDecision)
	r.Get("/{idOrNumber}", h.ServeGet)
	r.Delete("/{id}", h.ServeDelete)

	return r
}
