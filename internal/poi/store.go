package poi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iReady/iReady-Backend/internal/logger"
	"github.com/iReady/iReady-Backend/internal/placement"
)

// Store lists the points of interest known to the service.
type Store interface {
	All(ctx context.Context) ([]placement.POI, error)
}

// FileStore serves POIs decoded once from a JSON file.
type FileStore struct {
	pois []placement.POI
}

func NewFileStore(pois []placement.POI) *FileStore {
	return &FileStore{pois: pois}
}

// LoadFile reads a navotas_pois.json style array.
func LoadFile(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading POI file: %w", err)
	}
	pois, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewFileStore(pois), nil
}

func (s *FileStore) All(context.Context) ([]placement.POI, error) {
	return s.pois, nil
}

// Parse decodes a JSON array of POI records. Records without both
// coordinates are skipped. Numeric fields other than lat and lon end up in
// Attributes.
func Parse(data []byte) ([]placement.POI, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding POIs: %w", err)
	}

	pois := make([]placement.POI, 0, len(raw))
	skipped := 0
	for i, rec := range raw {
		p, ok := decodeRecord(rec)
		if !ok {
			skipped++
			continue
		}
		if p.ID == "" {
			p.ID = strconv.Itoa(i + 1)
		}
		pois = append(pois, p)
	}
	if skipped > 0 {
		logger.L().Warn("skipped POI records without coordinates", zap.Int("count", skipped))
	}
	return pois, nil
}

func decodeRecord(rec map[string]json.RawMessage) (placement.POI, bool) {
	var p placement.POI
	var lat, lon *float64
	if v, ok := rec["lat"]; ok {
		_ = json.Unmarshal(v, &lat)
	}
	if v, ok := rec["lon"]; ok {
		_ = json.Unmarshal(v, &lon)
	}
	if lat == nil || lon == nil {
		return p, false
	}
	p.Lat, p.Lon = *lat, *lon

	if v, ok := rec["id"]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			p.ID = s
		} else {
			var n json.Number
			if json.Unmarshal(v, &n) == nil {
				p.ID = n.String()
			}
		}
	}
	if v, ok := rec["name"]; ok {
		_ = json.Unmarshal(v, &p.Name)
	}
	if v, ok := rec["keywords"]; ok {
		_ = json.Unmarshal(v, &p.Keywords)
	}

	for k, v := range rec {
		switch k {
		case "id", "name", "lat", "lon", "keywords":
			continue
		}
		var f float64
		if json.Unmarshal(v, &f) == nil {
			if p.Attributes == nil {
				p.Attributes = map[string]float64{}
			}
			p.Attributes[k] = f
		}
	}
	return p, true
}

// DBStore reads POIs from relief.pois.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) All(ctx context.Context) ([]placement.POI, error) {
	var rows []StoredPOI
	if err := s.db.WithContext(ctx).Order("position, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing POIs: %w", err)
	}
	pois := make([]placement.POI, 0, len(rows))
	for _, r := range rows {
		pois = append(pois, r.POI())
	}
	return pois, nil
}
