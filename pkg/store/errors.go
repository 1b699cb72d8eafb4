package store

import "errors"

var (
	ErrLoadSnapshot      = errors.New("store: failed to load snapshot")
	ErrMalformedSnapshot = errors.New("store: malformed snapshot document")
	ErrSaveReport        = errors.New("store: failed to save report")
)
