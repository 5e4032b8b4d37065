package fetcher

import (
	"bytes"
	"encoding/json"
)

// listKeys are the wrapper keys whose first list element is the payload.
var listKeys = [...]string{"data", "result", "results", "records"} //nolint:gochecknoglobals // fixed lookup order

// Normalize reduces an upstream body to a single flat object, or nil when the
// body holds no usable data. Numbers keep their textual form.
//
//	[x, ...]                      -> x (or {"value": x} when x is not an object)
//	{"data"|"result"|...: [x]}    -> x (same wrapping)
//	{...}                         -> as is
//	anything else, {} or []       -> nil
func Normalize(body []byte) Result {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}

	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return nil
		}
		return asObject(t[0])
	case map[string]any:
		for _, key := range listKeys {
			if list, ok := t[key].([]any); ok && len(list) > 0 {
				return asObject(list[0])
			}
		}
		if len(t) == 0 {
			return nil
		}
		return t
	}
	return nil
}

func asObject(v any) Result {
	if m, ok := v.(map[string]any); ok {
		if len(m) == 0 {
			return nil
		}
		return m
	}
	return Result{"value": v}
}
