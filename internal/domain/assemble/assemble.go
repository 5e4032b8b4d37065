// Package assemble merges per-endpoint results into one DailyRecord.
package assemble

import (
	"fmt"
	"strconv"
	"time"

	"github.com/okian/healthfetch/internal/domain/record"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Assembler is stateless apart from its bookkeeping constants and clock.
type Assembler struct {
	now       func() time.Time
	stateName string
	focusArea string
	source    string
}

// New creates an Assembler with the default bookkeeping constants.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		now:       time.Now,
		stateName: "Bihar",
		focusArea: "State Health System Performance",
		source:    "Bhavya",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the record for date from results keyed by endpoint name.
// Missing or nil results leave their columns Unavailable. The returned record
// is fully sanitized.
func (a *Assembler) Assemble(results map[string]map[string]any, date, rangeStart, rangeEnd string) (record.DailyRecord, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return record.DailyRecord{}, fmt.Errorf("%w: %q: %w", ErrInvalidDate, date, err)
	}

	rec := record.New()
	rec.Set(record.DataDate, record.Present(date))
	rec.Set(record.StateName, record.Present(a.stateName))
	rec.Set(record.FocusArea, record.Present(a.focusArea))
	rec.Set(record.Year, record.Present(strconv.Itoa(day.Year())))
	rec.Set(record.Month, record.Present(day.Month().String()))
	rec.Set(record.StartDate, record.Present(rangeStart))
	rec.Set(record.EndDate, record.Present(rangeEnd))
	rec.Set(record.Source, record.Present(a.source))
	rec.Set(record.FetchedAt, record.Present(a.now().Format(timestampLayout)))

	for _, rule := range Rules {
		result := results[rule.Endpoint]
		if len(result) == 0 {
			continue
		}
		rec.Set(rule.Target, rule.extract(result))
	}

	return rec.Sanitized(), nil
}
