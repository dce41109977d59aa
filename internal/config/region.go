package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/iReady/iReady-Backend/internal/placement"
)

// regionFile mirrors the YAML layout file. Omitted sections keep defaults.
//
//	display_count: 50
//	region: {min_lat: 14.42, max_lat: 14.45, min_lon: 120.92, max_lon: 120.944}
//	land:   {min_lat: 14.427, max_lat: 14.444, min_lon: 120.923, max_lon: 120.94}
//	water_keywords: [sea, bay, river]
type regionFile struct {
	DisplayCount  *int                   `yaml:"display_count"`
	Region        *placement.BoundingBox `yaml:"region"`
	Land          *placement.BoundingBox `yaml:"land"`
	WaterKeywords []string               `yaml:"water_keywords"`
}

// LoadLayout returns the marker layout, reading overrides from path when it
// is non-empty.
func LoadLayout(path string) (placement.Layout, error) {
	layout := placement.DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("reading region file: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes a YAML layout document on top of the defaults.
func ParseLayout(data []byte) (placement.Layout, error) {
	layout := placement.DefaultLayout()

	var rf regionFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return layout, fmt.Errorf("parsing region file: %w", err)
	}

	if rf.DisplayCount != nil {
		if *rf.DisplayCount <= 0 {
			return layout, fmt.Errorf("%w: display_count must be positive, got %d", ErrInvalidConfig, *rf.DisplayCount)
		}
		layout.Count = *rf.DisplayCount
	}
	if rf.Region != nil {
		if !rf.Region.Valid() {
			return layout, fmt.Errorf("%w: region %+v", ErrInvalidBox, *rf.Region)
		}
		layout.Region = *rf.Region
	}
	if rf.Land != nil {
		if !rf.Land.Valid() {
			return layout, fmt.Errorf("%w: land %+v", ErrInvalidBox, *rf.Land)
		}
		layout.Land = *rf.Land
	}
	if rf.WaterKeywords != nil {
		layout.WaterKeywords = rf.WaterKeywords
	}
	return layout, nil
}
