// Package app - jsonutil.go provides JSON normalization utilities.
package app

import "encoding/json"

// NormalizeJSON converts a Go value to a JSON-normalized form (map[string]any, []any, etc).
// Structs are round-tripped through encoding/json so their json tags apply.
func NormalizeJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v.(type) {
	case map[string]any, []any, string, float64, bool:
		return v, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return result, nil
}
