package database

import "errors"

var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrInvalidID      = errors.New("invalid document id")
	ErrConnectionLost = errors.New("database connection lost")
)
