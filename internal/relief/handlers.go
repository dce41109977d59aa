package relief

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/utils"
)

type Handler struct {
	Predictions *Store
	Markers     *MarkerService
}

type codesResponse struct {
	Codes []string `json:"codes"`
}

type searchResponse struct {
	Results []Prediction `json:"results"`
}

type predictionResponse struct {
	Code     string             `json:"adm4_pcode"`
	Features map[string]float64 `json:"features"`
	Supplies CategorySupplies   `json:"supplies"`
}

type markersResponse struct {
	Markers []placement.DisplayMarker `json:"markers"`
}

// CodesHandler serves GET /api/toreceive.
func (h *Handler) CodesHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, codesResponse{Codes: h.Predictions.Codes()})
}

// SearchHandler serves GET /api/adm4?q=.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	results := h.Predictions.Search(r.URL.Query().Get("q"))
	utils.WriteJSON(w, http.StatusOK, searchResponse{Results: results})
}

// PredictionHandler serves GET /api/predictions/{code}.
func (h *Handler) PredictionHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	p, err := h.Predictions.Find(code)
	if err != nil {
		if errors.Is(err, ErrPredictionNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Area not found")
			return
		}
		logger.L().Error("prediction lookup", zap.String("code", code), zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteJSON(w, http.StatusOK, predictionResponse{
		Code:     p.Code,
		Features: p.Features(),
		Supplies: Categorize(p),
	})
}

// MarkersHandler serves GET /api/markers?count=N.
func (h *Handler) MarkersHandler(w http.ResponseWriter, r *http.Request) {
	count := 0
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxMarkerCount {
			utils.WriteError(w, http.StatusBadRequest, "count must be between 1 and "+strconv.Itoa(MaxMarkerCount))
			return
		}
		count = n
	}

	start := time.Now()
	markers, err := h.Markers.Markers(r.Context(), count)
	utils.AddServerTiming(w, "place", time.Since(start))
	if err != nil {
		logger.L().Error("computing markers", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteJSON(w, http.StatusOK, markersResponse{Markers: markers})
}

// RawHandler serves the predictions file unchanged, for clients that read
// ToReceive.json directly.
func (h *Handler) RawHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.Predictions.Raw())
}
