package placement

// Layout holds the static configuration of a marker layout.
type Layout struct {
	Count         int
	Region        BoundingBox
	Land          BoundingBox
	WaterKeywords []string
}

// DefaultLayout is the Navotas dashboard layout.
func DefaultLayout() Layout {
	return Layout{
		Count:         DefaultDisplayCount,
		Region:        RegionBox,
		Land:          LandBox,
		WaterKeywords: append([]string(nil), DefaultWaterKeywords...),
	}
}

// Place filters raw POIs into anchors and generates the layout's markers.
func (l Layout) Place(codes []string, raw []POI) []DisplayMarker {
	anchors := FilterAnchors(raw, l.Region, l.WaterKeywords)
	return GenerateMarkers(Options{Count: l.Count, Land: l.Land}, codes, anchors)
}
