package geocode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iReady/iReady-Backend/internal/middleware"
)

// SetupRoutes mounts under /api/geocode. limiter may be nil.
func SetupRoutes(h *Handler, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
	r.Get("/", h.GeocodeHandler)
	return r
}
