package placement

import "strconv"

const (
	// jitterSpan is the full width of the offset window in degrees,
	// roughly 300 m at Manila's latitude.
	jitterSpan = 0.003

	// anchorStride spreads successive indexes across the anchor list.
	anchorStride = 7
)

// Options configures marker generation.
type Options struct {
	Count int
	Land  BoundingBox
}

// PlaceholderCode is the synthetic code used when no area codes are known.
func PlaceholderCode(i int) string {
	return "PH-FAKE-" + strconv.Itoa(i+1)
}

// GenerateMarkers returns opts.Count markers. Codes repeat cyclically when
// fewer than Count are given. With anchors, each marker is jittered around a
// deterministically chosen anchor; without, the code is hashed into the land
// box. Every result is clamped to opts.Land.
func GenerateMarkers(opts Options, codes []string, anchors []POI) []DisplayMarker {
	if opts.Count <= 0 {
		return []DisplayMarker{}
	}

	markers := make([]DisplayMarker, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		code := PlaceholderCode(i)
		if len(codes) > 0 {
			code = codes[i%len(codes)]
		}

		var p GeoPoint
		if len(anchors) > 0 {
			p = jitterAround(anchors[(i*anchorStride)%len(anchors)].Point(), code, i)
		} else {
			p = MapCode(code, opts.Land)
		}
		p = opts.Land.Clamp(p)

		markers = append(markers, DisplayMarker{Code: code, Lat: p.Lat, Lon: p.Lon})
	}
	return markers
}

// jitterAround offsets base by at most jitterSpan/2 on each axis. The offset
// depends only on code and i.
func jitterAround(base GeoPoint, code string, i int) GeoPoint {
	rnd := newSeededRand(code + strconv.Itoa(i))
	dLat := (rnd.Float() - 0.5) * jitterSpan
	dLon := (rnd.Float() - 0.5) * jitterSpan
	return GeoPoint{Lat: base.Lat + dLat, Lon: base.Lon + dLon}
}
