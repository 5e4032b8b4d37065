package transport

import "errors"

// Sentinel kinds for upstream transport errors.
var (
	// ErrTransport covers connection failures, timeouts and unreadable bodies.
	ErrTransport = errors.New("upstream transport failure")
	// ErrRetriesExhausted is returned when every allowed attempt failed transiently.
	ErrRetriesExhausted = errors.New("upstream retries exhausted")
)
