package placement

const fractionScale = 100000

// MapCode places code at a stable point inside box. Two fractions are taken
// from the same hash; the shift before the second modulo decorrelates them.
func MapCode(code string, box BoundingBox) GeoPoint {
	h := HashCode(code)
	t := float64(h%fractionScale) / fractionScale
	u := float64((h>>7)%fractionScale) / fractionScale

	p := GeoPoint{
		Lat: box.MinLat + t*(box.MaxLat-box.MinLat),
		Lon: box.MinLon + u*(box.MaxLon-box.MinLon),
	}
	return box.Clamp(p)
}
