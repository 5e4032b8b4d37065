package schedule

import "errors"

var (
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
	// ErrInvertedRange is returned when the range start is after its end.
	ErrInvertedRange = errors.New("from date cannot be after to date")
)
