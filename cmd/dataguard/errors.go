package main

import "errors"

var (
	ErrRunFailed             = errors.New("validation run failed")
	ErrConstraintNotEnforced = errors.New("constraint not enforced")
	ErrNoSnapshotSource      = errors.New("no snapshot source: set PG_CONN_URL or pass --snapshot")
	ErrUnknownMigrateAction  = errors.New("unknown migrate action")
)
