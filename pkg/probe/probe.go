package probe

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/dataguard/pkg/pg"
)

// Constraint is the class of constraint a probe exercises.
type Constraint string

const (
	ConstraintUnique         Constraint = "unique"
	ConstraintNotNull        Constraint = "not_null"
	ConstraintForeignKey     Constraint = "foreign_key"
	ConstraintDeleteBehavior Constraint = "delete_behavior"
)

// expectedStates lists the SQLSTATE codes that reject a mutation for each constraint class.
var expectedStates = map[Constraint][]string{
	ConstraintUnique:         {pg.CodeUniqueViolation},
	ConstraintNotNull:        {pg.CodeNotNullViolation},
	ConstraintForeignKey:     {pg.CodeForeignKeyViolation},
	ConstraintDeleteBehavior: {pg.CodeForeignKeyViolation, pg.CodeRestrictViolation},
}

// Expects reports whether state is the usual rejection code for c.
func (c Constraint) Expects(state string) bool {
	return slices.Contains(expectedStates[c], state)
}

// Probe attempts one mutation that a correctly constrained store must reject.
// Exercise runs inside a transaction that is always rolled back.
type Probe struct {
	Name        string
	Constraint  Constraint
	Description string
	Exercise    func(ctx context.Context, tx pgx.Tx) error
}

// Outcome is the classification of a probe run.
type Outcome string

const (
	Enforced    Outcome = "enforced"
	NotEnforced Outcome = "not_enforced"
)

// Result is the outcome of one probe.
type Result struct {
	Probe      string        `json:"probe" yaml:"probe"`
	Constraint Constraint    `json:"constraint" yaml:"constraint"`
	Outcome    Outcome       `json:"outcome" yaml:"outcome"`
	SQLState   string        `json:"sqlstate,omitempty" yaml:"sqlstate,omitempty"`
	Expected   bool          `json:"expected" yaml:"expected"` // the rejection used the constraint's own SQLSTATE
	Detail     string        `json:"detail,omitempty" yaml:"detail,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Passed reports whether the store enforced the constraint.
func (r Result) Passed() bool {
	return r.Outcome == Enforced
}

// Results is the output of a probe run.
type Results []Result

// Failed returns the probes whose constraint was not enforced.
func (rs Results) Failed() Results {
	var out Results
	for _, r := range rs {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// Passed reports whether every probe passed.
func (rs Results) Passed() bool {
	return len(rs.Failed()) == 0
}

// Select returns the named probes in the order requested. Names may be
// comma separated lists. No names selects all.
func Select(all []Probe, names ...string) ([]Probe, error) {
	var wanted []string
	for _, n := range names {
		for part := range strings.SplitSeq(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				wanted = append(wanted, part)
			}
		}
	}
	if len(wanted) == 0 {
		return all, nil
	}

	byName := make(map[string]Probe, len(all))
	for _, p := range all {
		byName[p.Name] = p
	}
	out := make([]Probe, 0, len(wanted))
	var unknown []string
	for _, n := range wanted {
		p, ok := byName[n]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		out = append(out, p)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProbe, strings.Join(unknown, ", "))
	}
	return out, nil
}
