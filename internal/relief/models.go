package relief

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// PredictionPrefix marks the model's supply quantity columns.
const PredictionPrefix = "pred_"

// Prediction is one ToReceive.json record: an area code plus every numeric
// column of the model output. The original record is kept so it can be
// returned unchanged.
type Prediction struct {
	Code   string
	Values map[string]float64

	raw json.RawMessage
}

func (p *Prediction) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding prediction: %w", err)
	}

	out := Prediction{Values: make(map[string]float64, len(fields))}
	for k, v := range fields {
		if k == "adm4_pcode" {
			_ = json.Unmarshal(v, &out.Code)
			continue
		}
		var f *float64
		if json.Unmarshal(v, &f) == nil && f != nil {
			out.Values[k] = *f
		}
	}
	out.raw = append(json.RawMessage(nil), data...)
	*p = out
	return nil
}

func (p Prediction) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	fields := make(map[string]any, len(p.Values)+1)
	for k, v := range p.Values {
		fields[k] = v
	}
	fields["adm4_pcode"] = p.Code
	return json.Marshal(fields)
}

// Features returns the model inputs of the record, i.e. every value that is
// not a supply prediction.
func (p Prediction) Features() map[string]float64 {
	out := make(map[string]float64)
	for k, v := range p.Values {
		if !strings.HasPrefix(k, PredictionPrefix) {
			out[k] = v
		}
	}
	return out
}

// PredictionKeys lists the pred_* columns in sorted order.
func (p Prediction) PredictionKeys() []string {
	var keys []string
	for k := range p.Values {
		if strings.HasPrefix(k, PredictionPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
