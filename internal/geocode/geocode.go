package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/metrics"
	"github.com/iReady/iReady-Backend/internal/poi"
)

var (
	ErrNotFound = errors.New("location not found")
	ErrUpstream = errors.New("geocoding service error")
)

// Result sources.
const (
	SourceLocal     = "local"
	SourceNominatim = "nominatim"
)

// Result is a resolved place.
type Result struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
	Source      string  `json:"source"`
}

// Upstream resolves queries the local POI list cannot.
type Upstream interface {
	Search(ctx context.Context, q string) (Result, error)
}

// Service resolves a place query against the local POIs first, then the
// cache, then the upstream geocoder.
type Service struct {
	POIs     poi.Store
	Cache    Cache
	Upstream Upstream
}

func NewService(pois poi.Store, cache Cache, upstream Upstream) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{POIs: pois, Cache: cache, Upstream: upstream}
}

// Lookup resolves q. It returns ErrNotFound when nothing matches and wraps
// ErrUpstream when the upstream geocoder fails.
func (s *Service) Lookup(ctx context.Context, q string) (Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Result{}, ErrNotFound
	}

	if s.POIs != nil {
		pois, err := s.POIs.All(ctx)
		if err != nil {
			// The upstream can still answer.
			logger.L().Warn("local POIs unavailable for geocoding", zap.Error(err))
		} else if p, ok := poi.Lookup(pois, q); ok {
			metrics.GeocodeRequestsTotal.WithLabelValues("local").Inc()
			return Result{Lat: p.Lat, Lon: p.Lon, DisplayName: p.Name, Source: SourceLocal}, nil
		}
	}

	key := cases.Fold().String(q)
	if r, ok, err := s.Cache.Get(ctx, key); err != nil {
		logger.L().Warn("geocode cache get", zap.Error(err))
	} else if ok {
		metrics.GeocodeRequestsTotal.WithLabelValues("cache").Inc()
		return r, nil
	}

	if s.Upstream == nil {
		metrics.GeocodeRequestsTotal.WithLabelValues("miss").Inc()
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, q)
	}

	r, err := s.Upstream.Search(ctx, q)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.GeocodeRequestsTotal.WithLabelValues("miss").Inc()
		return Result{}, err
	case err != nil:
		metrics.GeocodeRequestsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}

	metrics.GeocodeRequestsTotal.WithLabelValues("nominatim").Inc()
	if err := s.Cache.Set(ctx, key, r); err != nil {
		logger.L().Warn("geocode cache set", zap.Error(err))
	}
	return r, nil
}
