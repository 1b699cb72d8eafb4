package quality

import "errors"

var (
	// ErrSnapshotUnavailable is returned by Runner.Run when no snapshot was supplied.
	ErrSnapshotUnavailable = errors.New("quality: snapshot unavailable")

	// ErrUnknownRule is returned when a rule id is not part of the catalog.
	ErrUnknownRule = errors.New("quality: unknown rule")

	// ErrInvalidConfig is returned by Config.Validate for out-of-range thresholds or bad patterns.
	ErrInvalidConfig = errors.New("quality: invalid config")

	// ErrRunAborted is returned when the caller's context ends before all rules complete.
	ErrRunAborted = errors.New("quality: run aborted")
)
