package placement

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultWaterKeywords mark POIs that sit on or next to open water.
var DefaultWaterKeywords = []string{
	"sea", "bay", "ocean", "lake", "river", "channel",
	"canal", "marina", "harbor", "harbour", "ferry", "port",
}

// IsWaterPOI reports whether any keyword of p matches a water keyword,
// case-insensitively and in either direction of containment.
func IsWaterPOI(p POI, water []string) bool {
	fold := cases.Fold()
	return isWater(p, foldAll(fold, water), fold)
}

func foldAll(fold cases.Caser, words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(fold.String(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func isWater(p POI, foldedWater []string, fold cases.Caser) bool {
	for _, k := range p.Keywords {
		k = strings.TrimSpace(fold.String(k))
		if k == "" {
			continue
		}
		for _, w := range foldedWater {
			if strings.Contains(k, w) || strings.Contains(w, k) {
				return true
			}
		}
	}
	return false
}

// FilterAnchors drops water POIs and POIs without usable coordinates, then
// keeps only those inside region. When nothing survives the region check the
// keyword-filtered list is returned instead, so callers only fall back to
// MapCode when that list is empty as well. The input is not modified.
func FilterAnchors(pois []POI, region BoundingBox, water []string) []POI {
	fold := cases.Fold()
	folded := foldAll(fold, water)

	dry := make([]POI, 0, len(pois))
	for _, p := range pois {
		if !finite(p.Lat) || !finite(p.Lon) {
			continue
		}
		if isWater(p, folded, fold) {
			continue
		}
		dry = append(dry, p)
	}

	inRegion := make([]POI, 0, len(dry))
	for _, p := range dry {
		if region.Contains(p.Point()) {
			inRegion = append(inRegion, p)
		}
	}
	if len(inRegion) > 0 {
		return inRegion
	}
	return dry
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
