package relief

import (
	"github.com/go-chi/chi/v5"

	"github.com/iReady/iReady-Backend/internal/middleware"
)

// RegisterRoutes adds the relief endpoints to an /api router. Marker
// placement needs a signed-in user.
func RegisterRoutes(r chi.Router, h *Handler, sessions middleware.SessionFetcher) {
	r.Get("/toreceive", h.CodesHandler)
	r.Get("/adm4", h.SearchHandler)
	r.Get("/predictions/{code}", h.PredictionHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessions))
		r.Get("/markers", h.MarkersHandler)
	})
}

// RegisterRawRoutes serves the predictions file at the paths the dashboard
// fetches it from.
func RegisterRawRoutes(r chi.Router, h *Handler) {
	r.Get("/ToReceive.json", h.RawHandler)
	r.Get("/data/ToReceive.json", h.RawHandler)
}
