// internal/app/features/prefs/routes.go
package prefs

import "github.com/go-chi/chi/v5"

// Routes mounts under /prefs inside the CSRF-protected page group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGet)
	r.Post("/sidebar", h.HandleSidebar)
	return r
}
