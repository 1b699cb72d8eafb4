package entity

import "errors"

var (
	// ErrDuplicateID is returned when a collection passed to NewSnapshot contains the same id twice.
	ErrDuplicateID = errors.New("entity: duplicate id in collection")
)
