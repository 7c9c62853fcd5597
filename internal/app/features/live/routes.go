package live

import "github.com/go-chi/chi/v5"

// Routes returns the live session router, mounted under /live.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeWS)
	return r
}
