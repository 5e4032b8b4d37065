package testupstream

import (
	"encoding/json"
	"hash/fnv"
	"strconv"

	"github.com/okian/healthfetch/internal/domain/assemble"
	"github.com/okian/healthfetch/internal/domain/endpoint"
)

const valueRange = 5000

// Shapes the generator rotates through so every normalization path is served.
const (
	shapeObject = iota
	shapeList
	shapeDataList
	shapeResultsList
	shapeCount
)

// Value is the deterministic number served for key of endpoint on date.
func Value(endpointName, key, date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(endpointName + "|" + key + "|" + date))
	return int(h.Sum32()%valueRange) + 1
}

// keysFor returns the primary keys the extraction table reads from name.
func keysFor(name string) []string {
	var keys []string
	for _, r := range assemble.Rules {
		if r.Endpoint == name {
			keys = append(keys, r.Key)
		}
	}
	if len(keys) == 0 {
		keys = []string{"count"}
	}
	return keys
}

// Payload builds the body served for d on date.
func Payload(d endpoint.Descriptor, date string) []byte {
	obj := map[string]any{}
	for _, k := range keysFor(d.Name) {
		obj[k] = Value(d.Name, k, date)
	}

	var body any
	h := fnv.New32a()
	_, _ = h.Write([]byte(d.Name))
	switch int(h.Sum32()) % shapeCount {
	case shapeList:
		body = []any{obj}
	case shapeDataList:
		body = map[string]any{"status": "ok", "data": []any{obj}}
	case shapeResultsList:
		body = map[string]any{"results": []any{obj}}
	default:
		body = obj
	}
	b, _ := json.Marshal(body)
	return b
}

// Expected is the column text a record should carry for key of endpoint on date.
func Expected(endpointName, key, date string) string {
	return strconv.Itoa(Value(endpointName, key, date))
}
