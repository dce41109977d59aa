package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iReady/iReady-Backend/internal/middleware"
)

// SetupRoutes mounts under /api/auth. limiter guards the credential
// endpoints and may be nil.
func SetupRoutes(h *Handler, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	sessionFetcher := SessionInfo{Store: h.Store}

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/me", h.Me)
		r.Post("/password", h.UpdatePassword)
	})

	return r
}
