package models

import (
	"database/sql/driver"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ToNumber coerces a loosely typed value to a float64. Anything that is not a
// finite number, or a string holding one, becomes 0.
func ToNumber(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case Number:
		f = float64(n)
	case json.Number:
		f = parseNumber(string(n))
	case string:
		f = parseNumber(n)
	case []byte:
		f = parseNumber(string(n))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Number is a float that tolerates partial data: null, numeric strings and
// garbage all decode, the latter two via ToNumber.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*n = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ToNumber(str))
		return nil
	}
	*n = Number(ToNumber(s))
	return nil
}

func (n *Number) Scan(src any) error {
	*n = Number(ToNumber(src))
	return nil
}

func (n Number) Value() (driver.Value, error) {
	return float64(n), nil
}

func (n Number) Float() float64 { return float64(n) }
