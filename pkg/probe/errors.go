package probe

import "errors"

var (
	// ErrStoreUnavailable is returned when a probe transaction cannot be started or the connection fails.
	ErrStoreUnavailable = errors.New("probe: store unavailable")

	// ErrProbeBroken is returned when a probe fails for a reason unrelated to constraint enforcement.
	ErrProbeBroken = errors.New("probe: probe failed before reaching the constraint")

	ErrUnknownProbe = errors.New("probe: unknown probe")
)

// Preserved is returned by a probe whose mutation succeeded while the
// constraint's intent was still upheld, for example a cascading delete.
type Preserved struct {
	Reason string
}

func (p *Preserved) Error() string {
	return "integrity preserved: " + p.Reason
}
