package poi

import (
	"strings"

	"github.com/iReady/iReady-Backend/internal/placement"
)

// Map layer categories, checked in order against the POI name.
const (
	CategoryEvacuation = "evacuation"
	CategoryHospital   = "hospital"
	CategorySchool     = "school"
	CategoryMarket     = "market"
	CategoryChurch     = "church"
	CategoryOther      = "other"
)

var categoryRules = []struct {
	category string
	words    []string
}{
	{CategoryEvacuation, []string{"evac", "center"}},
	{CategoryHospital, []string{"hosp", "clinic", "health"}},
	{CategorySchool, []string{"school", "college"}},
	{CategoryMarket, []string{"market", "palengke", "mall"}},
	{CategoryChurch, []string{"church", "chapel", "mosque", "temple"}},
}

// Classify buckets a POI into a map layer by name.
func Classify(p placement.POI) string {
	name := strings.ToLower(p.Name)
	for _, rule := range categoryRules {
		for _, w := range rule.words {
			if strings.Contains(name, w) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
