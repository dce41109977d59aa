package relief

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

var ErrPredictionNotFound = errors.New("prediction not found")

// MaxSearchResults caps ADM4 search responses.
const MaxSearchResults = 20

// Store holds the predictions file in memory. It is read-only after load.
type Store struct {
	records []Prediction
	byCode  map[string]int
	raw     []byte
}

// LoadFile reads a ToReceive.json predictions file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading predictions file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a JSON array of prediction records.
func Parse(data []byte) (*Store, error) {
	var records []Prediction
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding predictions: %w", err)
	}

	s := &Store{
		records: records,
		byCode:  make(map[string]int, len(records)),
		raw:     data,
	}
	for i, r := range records {
		if r.Code == "" {
			continue
		}
		// First record wins for duplicated codes.
		if _, ok := s.byCode[r.Code]; !ok {
			s.byCode[r.Code] = i
		}
	}
	return s, nil
}

// Raw returns the file exactly as loaded.
func (s *Store) Raw() []byte {
	return s.raw
}

// Records returns every prediction in file order.
func (s *Store) Records() []Prediction {
	return s.records
}

// Codes returns the non-empty area codes in file order, duplicates included.
func (s *Store) Codes() []string {
	codes := make([]string, 0, len(s.records))
	for _, r := range s.records {
		if r.Code != "" {
			codes = append(codes, r.Code)
		}
	}
	return codes
}

// Find returns the prediction for code.
func (s *Store) Find(code string) (Prediction, error) {
	i, ok := s.byCode[code]
	if !ok {
		return Prediction{}, fmt.Errorf("%w: %s", ErrPredictionNotFound, code)
	}
	return s.records[i], nil
}

// Search looks records up by area code, case-insensitively. A blank query
// returns the first MaxSearchResults records, an exact code match returns
// that record alone, and otherwise every code containing q is returned up
// to MaxSearchResults.
func (s *Store) Search(q string) []Prediction {
	fold := cases.Fold()
	q = strings.TrimSpace(fold.String(q))
	if q == "" {
		return s.records[:min(len(s.records), MaxSearchResults)]
	}

	for _, r := range s.records {
		if fold.String(r.Code) == q {
			return []Prediction{r}
		}
	}

	results := make([]Prediction, 0, MaxSearchResults)
	for _, r := range s.records {
		if strings.Contains(fold.String(r.Code), q) {
			results = append(results, r)
			if len(results) == MaxSearchResults {
				break
			}
		}
	}
	return results
}
