package poi

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/iReady/iReady-Backend/internal/placement"
)

// MaxResults caps search and listing responses.
const MaxResults = 20

// Search returns POIs whose name contains q or whose keywords match q in
// either direction, case-insensitively, capped at MaxResults. A blank q
// lists the first MaxResults POIs, or all of them when all is set.
func Search(pois []placement.POI, q string, all bool) []placement.POI {
	fold := cases.Fold()
	q = strings.TrimSpace(fold.String(q))
	if q == "" {
		if all || len(pois) <= MaxResults {
			return pois
		}
		return pois[:MaxResults]
	}

	results := make([]placement.POI, 0, MaxResults)
	for _, p := range pois {
		if nameMatches(fold, p, q) || keywordMatches(fold, p, q) {
			results = append(results, p)
			if len(results) == MaxResults {
				break
			}
		}
	}
	return results
}

// Lookup finds the best local match for a place query: the first POI whose
// name contains q, else the first whose keywords match q.
func Lookup(pois []placement.POI, q string) (placement.POI, bool) {
	fold := cases.Fold()
	q = strings.TrimSpace(fold.String(q))
	if q == "" {
		return placement.POI{}, false
	}
	for _, p := range pois {
		if nameMatches(fold, p, q) {
			return p, true
		}
	}
	for _, p := range pois {
		if keywordMatches(fold, p, q) {
			return p, true
		}
	}
	return placement.POI{}, false
}

func nameMatches(fold cases.Caser, p placement.POI, q string) bool {
	return strings.Contains(fold.String(p.Name), q)
}

func keywordMatches(fold cases.Caser, p placement.POI, q string) bool {
	for _, k := range p.Keywords {
		k = strings.TrimSpace(fold.String(k))
		if k == "" {
			continue
		}
		if strings.Contains(k, q) || strings.Contains(q, k) {
			return true
		}
	}
	return false
}
