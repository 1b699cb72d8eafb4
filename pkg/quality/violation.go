package quality

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/dataguard/pkg/entity"
)

// Category groups rules by the kind of defect they detect.
type Category string

const (
	CategoryDuplicate            Category = "duplicate"
	CategoryReferentialIntegrity Category = "referential_integrity"
	CategoryRange                Category = "range"
	CategoryFormat               Category = "format"
	CategoryConsistency          Category = "consistency"
	CategoryTemporal             Category = "temporal"
)

// Severity classifies a single violation.
type Severity string

const (
	// SeverityCritical violations fail the rule that produced them.
	SeverityCritical Severity = "critical"
	// SeverityWarning violations are advisory and never fail a rule on their own.
	SeverityWarning Severity = "warning"
)

// Evidence keys used by the built-in rules.
const (
	EvidenceStored       = "stored"
	EvidenceComputed     = "computed"
	EvidenceDifference   = "difference"
	EvidenceValue        = "value"
	EvidenceCount        = "count"
	EvidenceSecondsApart = "seconds_apart"
	EvidenceSecondsAhead = "seconds_ahead"
	EvidenceForeignKey   = "foreign_key"
)

// Violation is a single detected data-quality defect.
type Violation struct {
	Rule       RuleID             `json:"rule" yaml:"rule"`
	Category   Category           `json:"category" yaml:"category"`
	Severity   Severity           `json:"severity" yaml:"severity"`
	Code       string             `json:"code" yaml:"code"`
	Entity     entity.Kind        `json:"entity" yaml:"entity"`
	SubjectIDs []int64            `json:"subject_ids" yaml:"subject_ids"`
	Message    string             `json:"message" yaml:"message"`
	Values     []string           `json:"values,omitempty" yaml:"values,omitempty"`
	Evidence   map[string]float64 `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// withEvidence attaches the finite entries of ev to v. Non-finite ones are
// appended to Values as "key=value".
func (v Violation) withEvidence(ev map[string]float64) Violation {
	for _, k := range slices.Sorted(maps.Keys(ev)) {
		if n := ev[k]; nonFinite(n) {
			v.Values = append(v.Values, fmt.Sprintf("%s=%v", k, n))
			delete(ev, k)
		}
	}
	if len(ev) > 0 {
		v.Evidence = ev
	}
	return v
}

// IsCritical reports whether the violation fails its rule.
func (v Violation) IsCritical() bool {
	return v.Severity == SeverityCritical
}

func compareViolations(a, b Violation) int {
	if a.Entity != b.Entity {
		if a.Entity.Less(b.Entity) {
			return -1
		}
		return 1
	}
	if c := slices.Compare(a.SubjectIDs, b.SubjectIDs); c != 0 {
		return c
	}
	return cmp.Compare(a.Code, b.Code)
}

// sortViolations orders output by subject so that repeated runs are identical.
func sortViolations(vs []Violation) {
	slices.SortStableFunc(vs, compareViolations)
}
