// Package schedule turns run triggers into the ordered list of dates to ingest.
package schedule

import (
	"fmt"
	"time"
)

// Layout is the only accepted date format.
const Layout = "2006-01-02"

// Today returns the single-date list for now's calendar day in now's location.
func Today(now time.Time) []string {
	return []string{now.Format(Layout)}
}

// Parse validates a YYYY-MM-DD date.
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// Range returns every date from from to to inclusive, ascending.
func Range(from, to string) ([]string, error) {
	start, err := Parse(from)
	if err != nil {
		return nil, err
	}
	end, err := Parse(to)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvertedRange, from, to)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]string, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(Layout))
	}
	return dates, nil
}
