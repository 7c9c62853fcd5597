// internal/app/features/courses/routes.go
package courses

import "github.com/go-chi/chi/v5"

// Routes serves the catalog page, mounted under /courses.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/sections", h.ServeSections)
	r.Get("/{id}/preview", h.ServePreview)
	return r
}

// APIRoutes serves the JSON projection, mounted under /api/courses.
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeJSON)
	return r
}
