package assemble

import "errors"

// ErrInvalidDate is returned when the record date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("assemble: invalid date")
