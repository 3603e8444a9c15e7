package storage

import "errors"

var (
	ErrDoesNotExists = errors.New("object does not exists")
)
