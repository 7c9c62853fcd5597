// internal/app/features/contact/routes.go
package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes serves the contact page, mounted under /contact inside the
// CSRF-protected page group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeContact)
	r.Post("/", h.HandleSubmit)
	return r
}

// APIRoutes serves the JSON endpoint, mounted under /api/contact. Browsers
// on allowedOrigins may call it cross-site.
func APIRoutes(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Post("/", h.HandleAPI)
	return r
}
