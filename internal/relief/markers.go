package relief

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/metrics"
	"github.com/iReady/iReady-Backend/internal/placement"
	"github.com/iReady/iReady-Backend/internal/poi"
)

// MaxMarkerCount bounds the count accepted by the markers endpoint.
const MaxMarkerCount = 1000

// MarkerService computes display markers for the known area codes and
// remembers the last result. The layout is recomputed only when the codes,
// the POIs or the requested count change.
type MarkerService struct {
	layout placement.Layout
	codes  func() []string
	pois   poi.Store

	mu      sync.Mutex
	lastKey uint64
	last    []placement.DisplayMarker
}

func NewMarkerService(layout placement.Layout, codes func() []string, pois poi.Store) *MarkerService {
	return &MarkerService{layout: layout, codes: codes, pois: pois}
}

// Layout returns the configured layout.
func (s *MarkerService) Layout() placement.Layout {
	return s.layout
}

// Markers returns count markers; count <= 0 selects the layout default.
// The returned slice is shared between callers and must not be modified.
func (s *MarkerService) Markers(ctx context.Context, count int) ([]placement.DisplayMarker, error) {
	if count <= 0 {
		count = s.layout.Count
	}
	if count > MaxMarkerCount {
		return nil, fmt.Errorf("count %d exceeds %d", count, MaxMarkerCount)
	}

	pois, err := s.pois.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading POIs: %w", err)
	}
	codes := s.codes()

	layout := s.layout
	layout.Count = count
	key := fingerprint(layout, codes, pois)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil && key == s.lastKey {
		metrics.MarkerCacheHitsTotal.Inc()
		return s.last, nil
	}

	markers := layout.Place(codes, pois)
	metrics.MarkerComputationsTotal.Inc()
	logger.L().Debug("computed markers",
		zap.Int("count", len(markers)),
		zap.Int("codes", len(codes)),
		zap.Int("pois", len(pois)),
	)

	s.lastKey, s.last = key, markers
	return markers, nil
}

// fingerprint hashes every input that affects the layout.
func fingerprint(l placement.Layout, codes []string, pois []placement.POI) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	putString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	putBox := func(b placement.BoundingBox) {
		putFloat(b.MinLat)
		putFloat(b.MaxLat)
		putFloat(b.MinLon)
		putFloat(b.MaxLon)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(l.Count))
	h.Write(buf[:])
	putBox(l.Region)
	putBox(l.Land)
	for _, w := range l.WaterKeywords {
		putString(w)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(codes)))
	h.Write(buf[:])
	for _, c := range codes {
		putString(c)
	}

	binary.LittleEndian.PutUint64(buf[:], uint64(len(pois)))
	h.Write(buf[:])
	for _, p := range pois {
		putString(p.ID)
		putFloat(p.Lat)
		putFloat(p.Lon)
		binary.LittleEndian.PutUint64(buf[:], uint64(len(p.Keywords)))
		h.Write(buf[:])
		for _, k := range p.Keywords {
			putString(k)
		}
	}
	return h.Sum64()
}
