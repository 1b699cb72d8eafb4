package quality

import (
	"fmt"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// PolicyKind selects how a rule turns its violations into a verdict.
type PolicyKind string

const (
	// PolicyCritical fails when at least one critical violation is present.
	PolicyCritical PolicyKind = "critical"
	// PolicyAdvisory never fails.
	PolicyAdvisory PolicyKind = "advisory"
	// PolicyThreshold fails on a critical violation or when the flagged
	// fraction of the scanned population exceeds the threshold.
	PolicyThreshold PolicyKind = "threshold"
)

// Policy is the declarative pass/fail decision attached to a rule.
type Policy struct {
	Kind      PolicyKind `json:"kind" yaml:"kind"`
	Threshold float64    `json:"threshold,omitempty" yaml:"threshold,omitempty"`
}

func CriticalPolicy() Policy { return Policy{Kind: PolicyCritical} }

func AdvisoryPolicy() Policy { return Policy{Kind: PolicyAdvisory} }

// ThresholdPolicy fails when flagged/scanned is strictly greater than fraction.
func ThresholdPolicy(fraction float64) Policy {
	return Policy{Kind: PolicyThreshold, Threshold: fraction}
}

func (p Policy) String() string {
	if p.Kind == PolicyThreshold {
		return fmt.Sprintf("%s(>%.2f%%)", p.Kind, p.Threshold*100)
	}
	return string(p.Kind)
}

// Status is the verdict of a rule or a whole run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusWarned Status = "warned"
	StatusFailed Status = "failed"
)

// Findings is the raw output of a single rule evaluation.
type Findings struct {
	Violations []Violation
	// Scanned is the size of the population the rule inspected.
	Scanned int
}

// Critical returns the number of critical violations.
func (f Findings) Critical() int {
	n := 0
	for _, v := range f.Violations {
		if v.IsCritical() {
			n++
		}
	}
	return n
}

// Flagged returns the number of distinct records referenced by the violations.
func (f Findings) Flagged() int {
	type subject struct {
		kind entity.Kind
		id   int64
	}
	seen := make(map[subject]struct{})
	for _, v := range f.Violations {
		for _, id := range v.SubjectIDs {
			seen[subject{v.Entity, id}] = struct{}{}
		}
	}
	return len(seen)
}

// Fraction returns Flagged divided by Scanned, or zero for an empty population.
func (f Findings) Fraction() float64 {
	if f.Scanned <= 0 {
		return 0
	}
	return float64(f.Flagged()) / float64(f.Scanned)
}

// Decide applies the policy to the findings.
func (p Policy) Decide(f Findings) Status {
	switch p.Kind {
	case PolicyAdvisory:
	case PolicyThreshold:
		if f.Critical() > 0 || f.Fraction() > p.Threshold {
			return StatusFailed
		}
	default:
		if f.Critical() > 0 {
			return StatusFailed
		}
	}
	if len(f.Violations) > 0 {
		return StatusWarned
	}
	return StatusPassed
}
