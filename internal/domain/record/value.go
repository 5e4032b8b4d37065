// Package record defines the persisted daily record and its tagged field values.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel is the stored text of an unavailable field.
const Sentinel = "Not Available"

// placeholders are upstream spellings of "no data", compared lower-cased.
// The sentinel itself is included so a sanitized record round-trips.
var placeholders = map[string]struct{}{ //nolint:gochecknoglobals // fixed vocabulary
	"null":          {},
	"none":          {},
	"nan":           {},
	"not found":     {},
	"notfound":      {},
	"n/a":           {},
	"na":            {},
	"-":             {},
	"not available": {},
}

// Value is either Present(text) or Unavailable. The zero Value is Unavailable.
type Value struct {
	text    string
	present bool
}

// Present wraps real data. Empty text yields Unavailable.
func Present(text string) Value {
	if text == "" {
		return Value{}
	}
	return Value{text: text, present: true}
}

// Unavailable marks a field with no usable data.
func Unavailable() Value { return Value{} }

// IsPresent reports whether the value carries real data.
func (v Value) IsPresent() bool { return v.present }

// Text returns the data and whether it is present.
func (v Value) Text() (string, bool) { return v.text, v.present }

// String renders the stored form: the data, or Sentinel.
func (v Value) String() string {
	if !v.present {
		return Sentinel
	}
	return v.text
}

// MarshalJSON writes the stored form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// IsPlaceholder reports whether s is empty or a known "no data" spelling.
func IsPlaceholder(s string) bool {
	if s == "" {
		return true
	}
	_, ok := placeholders[strings.ToLower(s)]
	return ok
}

// Sanitize converts any decoded JSON scalar (or an existing Value) into a Value.
// nil, empty and placeholder values become Unavailable; everything else keeps its
// string form. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw any) Value {
	var s string
	switch v := raw.(type) {
	case nil:
		return Unavailable()
	case Value:
		if !v.present {
			return Unavailable()
		}
		s = v.text
	case string:
		s = v
	case json.Number:
		s = v.String()
	case bool:
		s = "False"
		if v {
			s = "True"
		}
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return Unavailable()
		}
		s = string(b)
	default:
		s = fmt.Sprint(v)
	}
	if IsPlaceholder(s) {
		return Unavailable()
	}
	return Present(s)
}
