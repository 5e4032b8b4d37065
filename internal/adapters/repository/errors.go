package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrConnect       = errors.New("database connection failed")
	ErrSchema        = errors.New("database table unavailable")
	ErrInsert        = errors.New("record insert failed")
	ErrQuery         = errors.New("record query failed")
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrInvalidTable  = errors.New("invalid table name")
)
