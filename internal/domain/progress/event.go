// Package progress contains the run narration events streamed to subscribers.
package progress

import (
	"encoding/json"
)

// Type tags an Event.
type Type string

// Event types, in the order a run may emit them.
const (
	TypeLog           Type = "log"
	TypeStart         Type = "start"
	TypeDateStart     Type = "date_start"
	TypeDateSkip      Type = "date_skip"
	TypeEndpointStart Type = "endpoint_start"
	TypeEndpointDone  Type = "endpoint_done"
	TypeDateDone      Type = "date_done"
	TypeComplete      Type = "complete"
	TypeError         Type = "error"
)

// Status values carried by endpoint_done and date_done.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusFailed  = "failed"
)

// Event is one frame of the progress stream: a type plus a flat payload.
type Event struct {
	Type    Type
	Payload map[string]any
}

// MarshalJSON flattens the payload next to "type".
func (e Event) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		m[k] = v
	}
	m["type"] = e.Type
	return json.Marshal(m)
}

// UnmarshalJSON reads a flat frame back; numbers decode as float64.
func (e *Event) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	t, _ := m["type"].(string)
	delete(m, "type")
	e.Type = Type(t)
	e.Payload = m
	return nil
}

// String returns a payload field as a string, or "".
func (e Event) String(key string) string {
	s, _ := e.Payload[key].(string)
	return s
}

// Int returns a payload field as an int, or 0.
func (e Event) Int(key string) int {
	switch v := e.Payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a payload field as a bool, or false.
func (e Event) Bool(key string) bool {
	b, _ := e.Payload[key].(bool)
	return b
}

// Log is a free-text progress message.
func Log(message string) Event {
	return Event{Type: TypeLog, Payload: map[string]any{"message": message}}
}

// Start opens a run with its date and endpoint totals.
func Start(totalDates, totalEndpoints int, runID string) Event {
	return Event{Type: TypeStart, Payload: map[string]any{
		"total_dates":     totalDates,
		"total_endpoints": totalEndpoints,
		"run_id":          runID,
	}}
}

// DateStart carries a 1-based index.
func DateStart(date string, index, totalDates int) Event {
	return Event{Type: TypeDateStart, Payload: map[string]any{
		"date":        date,
		"date_index":  index,
		"total_dates": totalDates,
	}}
}

// DateSkip ends a date that is already stored.
func DateSkip(date, reason string) Event {
	return Event{Type: TypeDateSkip, Payload: map[string]any{"date": date, "reason": reason}}
}

// EndpointStart carries a 1-based index.
func EndpointStart(name, desc string, index, total int) Event {
	return Event{Type: TypeEndpointStart, Payload: map[string]any{
		"endpoint": name,
		"desc":     desc,
		"index":    index,
		"total":    total,
	}}
}

// EndpointDone reports whether the endpoint produced usable data.
func EndpointDone(name string, hasData bool) Event {
	status := StatusNoData
	if hasData {
		status = StatusSuccess
	}
	return Event{Type: TypeEndpointDone, Payload: map[string]any{
		"endpoint": name,
		"status":   status,
		"data":     hasData,
	}}
}

// DateDone ends a fetched date; saved selects success or failed.
func DateDone(date string, saved bool, message string) Event {
	status := StatusFailed
	if saved {
		status = StatusSuccess
	}
	return Event{Type: TypeDateDone, Payload: map[string]any{
		"date":    date,
		"status":  status,
		"message": message,
	}}
}

// Complete ends a run with its aggregate counters.
func Complete(success, skipped, failed, totalRecords int, runID string) Event {
	return Event{Type: TypeComplete, Payload: map[string]any{
		"success":       success,
		"skipped":       skipped,
		"failed":        failed,
		"total_records": totalRecords,
		"run_id":        runID,
	}}
}

// Error ends a run on a fatal failure.
func Error(message string) Event {
	return Event{Type: TypeError, Payload: map[string]any{"message": message}}
}

// Terminal reports whether e ends a run.
func (e Event) Terminal() bool {
	return e.Type == TypeComplete || e.Type == TypeError
}
