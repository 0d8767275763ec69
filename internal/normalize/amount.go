package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Amount coerces a loosely typed numeric value into a float. Numbers pass
// through; strings are stripped of thousands-separator commas and
// currency symbols before parsing. Anything that still does not parse,
// including nil and empty strings, becomes 0; normalization never fails
// outwardly.
func Amount(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		clean := strings.NewReplacer(",", "", "$", "").Replace(t)
		clean = strings.TrimSpace(clean)
		if clean == "" {
			return 0
		}
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
