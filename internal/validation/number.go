package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number accepts a JSON number or a numeric string. Coercion is lenient:
// null, false and blank strings become 0, true becomes 1 and anything
// unparseable becomes NaN so the finite rule rejects it.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*n = Number(math.NaN())
	case string(data) == "null" || string(data) == "false":
		*n = 0
	case string(data) == "true":
		*n = 1
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = parseNumber(s)
	case data[0] == '{' || data[0] == '[':
		*n = Number(math.NaN())
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(f)
	}
	return nil
}

func parseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// ParseFloat accepts these spellings; JSON clients never mean them as numbers.
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "inf", "infinity", "nan":
		return Number(math.NaN())
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// Finite reports whether n is neither NaN nor infinite.
func (n Number) Finite() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Int64 returns n as an integer id, false when n is not a positive whole number.
func (n Number) Int64() (int64, bool) {
	if !n.Finite() {
		return 0, false
	}
	f := float64(n)
	if f <= 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
