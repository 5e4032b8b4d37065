package fetcher

import "errors"

// ErrStatus is returned for a non-2xx answer other than the handled 401.
var ErrStatus = errors.New("unexpected upstream status")
