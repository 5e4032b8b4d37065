package assemble

import "time"

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the time source used for fetched_at.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithStateName overrides the state_name column.
func WithStateName(s string) Option {
	return func(a *Assembler) { a.stateName = s }
}

// WithFocusArea overrides the focus_area column.
func WithFocusArea(s string) Option {
	return func(a *Assembler) { a.focusArea = s }
}

// WithSource overrides the source column.
func WithSource(s string) Option {
	return func(a *Assembler) { a.source = s }
}
