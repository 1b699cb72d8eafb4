package logger

import "errors"

var ErrUnknownFormat = errors.New("logger: unknown format")
