package poi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts under /api/pois.
func SetupRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.SearchHandler)
	return r
}
