package database

import "errors"

// ErrKeyNotFound is returned when no value is stored under the requested key.
var ErrKeyNotFound = errors.New("key not found")
