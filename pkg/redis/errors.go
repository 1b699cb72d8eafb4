package redis

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("redis: empty connection url")
	ErrInvalidURL         = errors.New("redis: invalid connection url")
	ErrNotReady           = errors.New("redis: server not ready")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
