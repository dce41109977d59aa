package geocode

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/utils"
)

type Handler struct {
	Service *Service
}

// GeocodeHandler serves GET /api/geocode?q=.
func (h *Handler) GeocodeHandler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		utils.WriteError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	start := time.Now()
	res, err := h.Service.Lookup(r.Context(), q)
	utils.AddServerTiming(w, "geocode", time.Since(start))
	switch {
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Location not found")
		return
	case errors.Is(err, ErrUpstream):
		logger.L().Warn("geocoding upstream", zap.String("q", q), zap.Error(err))
		utils.WriteError(w, http.StatusBadGateway, "Geocoding service error")
		return
	case err != nil:
		logger.L().Error("geocoding", zap.String("q", q), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, res)
}
