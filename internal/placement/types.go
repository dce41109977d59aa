package placement

import "math"

// GeoPoint is a WGS84 latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is a rectangular lat/lon region. Min values are expected to be
// less than or equal to their max counterparts.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat"`
	MinLon float64 `json:"min_lon" yaml:"min_lon"`
	MaxLon float64 `json:"max_lon" yaml:"max_lon"`
}

// Contains reports whether p lies inside the box, bounds inclusive.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Clamp pulls p onto the nearest point inside the box.
func (b BoundingBox) Clamp(p GeoPoint) GeoPoint {
	return GeoPoint{
		Lat: math.Max(b.MinLat, math.Min(b.MaxLat, p.Lat)),
		Lon: math.Max(b.MinLon, math.Min(b.MaxLon, p.Lon)),
	}
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Valid reports whether every bound is finite and min <= max on both axes.
func (b BoundingBox) Valid() bool {
	for _, v := range []float64{b.MinLat, b.MaxLat, b.MinLon, b.MaxLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// POI is a named, geolocated landmark used as a placement anchor.
// Attributes carries any extra numeric fields of the source record.
type POI struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Lat        float64            `json:"lat"`
	Lon        float64            `json:"lon"`
	Keywords   []string           `json:"keywords,omitempty"`
	Attributes map[string]float64 `json:"attributes,omitempty"`
}

// Point returns the POI location.
func (p POI) Point() GeoPoint {
	return GeoPoint{Lat: p.Lat, Lon: p.Lon}
}

// DisplayMarker is a computed map marker for one area code.
type DisplayMarker struct {
	Code string  `json:"adm4_pcode"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Navotas boxes. RegionBox loosely surrounds the local POI data set; LandBox
// is inset from the extreme POI coordinates so markers stay on built-up land.
var (
	RegionBox = BoundingBox{MinLat: 14.42, MaxLat: 14.45, MinLon: 120.92, MaxLon: 120.944}
	LandBox   = BoundingBox{MinLat: 14.427, MaxLat: 14.444, MinLon: 120.923, MaxLon: 120.94}
)

// DefaultDisplayCount is the number of markers the dashboard plots.
const DefaultDisplayCount = 50
