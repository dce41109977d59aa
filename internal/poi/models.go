package poi

import (
	"time"

	"github.com/lib/pq"

	"github.com/iReady/iReady-Backend/internal/placement"
)

// StoredPOI is a row of relief.pois. Position keeps the source file order,
// which marker anchoring depends on.
type StoredPOI struct {
	ID        string         `gorm:"primaryKey"`
	Position  int            `gorm:"not null;index"`
	Name      string         `gorm:"not null;index"`
	Lat       float64        `gorm:"not null"`
	Lon       float64        `gorm:"not null"`
	Keywords  pq.StringArray `gorm:"type:text[]"`
	CreatedAt time.Time
}

func (StoredPOI) TableName() string { return "relief.pois" }

func (s StoredPOI) POI() placement.POI {
	return placement.POI{
		ID:       s.ID,
		Name:     s.Name,
		Lat:      s.Lat,
		Lon:      s.Lon,
		Keywords: []string(s.Keywords),
	}
}

func FromPOI(p placement.POI, position int) StoredPOI {
	return StoredPOI{
		ID:       p.ID,
		Position: position,
		Name:     p.Name,
		Lat:      p.Lat,
		Lon:      p.Lon,
		Keywords: pq.StringArray(p.Keywords),
	}
}
