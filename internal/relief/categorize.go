package relief

import (
	"regexp"
	"strings"
)

// CategorySupplies groups predicted quantities by item name.
type CategorySupplies struct {
	Medical map[string]float64 `json:"medical"`
	Food    map[string]float64 `json:"food"`
	Shelter map[string]float64 `json:"shelter"`
	Water   map[string]float64 `json:"water"`
}

// Patterns are matched against the raw pred_* column name, first match wins.
// Anything unmatched is counted as water.
var (
	medicalPattern = regexp.MustCompile(`para|first|antibi|bandage|alcohol|therm|blood|mask|glove|vitamin`)
	foodPattern    = regexp.MustCompile(`rice|canned|noodle|biscuit|baby|oil|sugar|salt|juice|meal`)
	shelterPattern = regexp.MustCompile(`blanket|mat|tent|pillow|cloth|towel|slipper|hygiene|net|flash`)
)

// ItemName turns a pred_* column into a display name: pred_canned_goods
// becomes "canned goods".
func ItemName(key string) string {
	return strings.ReplaceAll(strings.TrimPrefix(key, PredictionPrefix), "_", " ")
}

// Categorize sorts the supply predictions of p into the four relief categories.
func Categorize(p Prediction) CategorySupplies {
	c := CategorySupplies{
		Medical: map[string]float64{},
		Food:    map[string]float64{},
		Shelter: map[string]float64{},
		Water:   map[string]float64{},
	}

	for _, key := range p.PredictionKeys() {
		name, qty := ItemName(key), p.Values[key]
		switch {
		case medicalPattern.MatchString(key):
			c.Medical[name] = qty
		case foodPattern.MatchString(key):
			c.Food[name] = qty
		case shelterPattern.MatchString(key):
			c.Shelter[name] = qty
		default:
			c.Water[name] = qty
		}
	}
	return c
}
