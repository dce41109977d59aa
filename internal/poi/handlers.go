package poi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/utils"
)

type Handler struct {
	Store Store
}

type searchResult struct {
	placement.POI
	Category string `json:"category"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// SearchHandler serves GET /api/pois?q=&all=true.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	pois, err := h.Store.All(r.Context())
	if err != nil {
		logger.L().Error("POI search", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	q := r.URL.Query().Get("q")
	all := r.URL.Query().Get("all") == "true"
	matches := Search(pois, q, all)
	results := make([]searchResult, 0, len(matches))
	for _, p := range matches {
		results = append(results, searchResult{POI: p, Category: Classify(p)})
	}
	utils.WriteJSON(w, http.StatusOK, searchResponse{Results: results})
}
